package linking

import (
	"context"

	"github.com/agenthands/rellink/internal/core/evidence"
	"github.com/agenthands/rellink/internal/core/model"
)

type MockSource struct {
	SourceName string
	ScoreFunc  func(t model.Triple) model.ScoreMap
	Calls      []model.Triple
	Params     []evidence.Params
}

func (m *MockSource) Name() string { return m.SourceName }

func (m *MockSource) ScoreRelations(_ context.Context, t model.Triple, p evidence.Params) model.ScoreMap {
	m.Calls = append(m.Calls, t)
	m.Params = append(m.Params, p)
	if m.ScoreFunc == nil {
		return model.ScoreMap{}
	}
	return m.ScoreFunc(t)
}

type MockLookup map[string][]string

func (m MockLookup) Get(q string) []string { return m[q] }
