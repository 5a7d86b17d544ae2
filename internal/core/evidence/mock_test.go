package evidence

import (
	"context"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/llm"
)

type MockLister struct {
	Results map[string][]string
	Err     error
	Calls   []kg.PropertyPattern
}

func (m *MockLister) ListProperties(_ context.Context, p kg.PropertyPattern) ([]string, error) {
	m.Calls = append(m.Calls, p)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results[kg.SelectQuery(p)], nil
}

type MockClassifier struct {
	Ranked   []model.RelationScore
	Err      error
	Requests []llm.ClassifyRequest
}

func (m *MockClassifier) Classify(_ context.Context, req llm.ClassifyRequest) ([]model.RelationScore, error) {
	m.Requests = append(m.Requests, req)
	return m.Ranked, m.Err
}

type MockLLM struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockLLM) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}
