package server

import (
	"context"

	"github.com/agenthands/rellink/internal/core/linking"
	"github.com/agenthands/rellink/internal/validation"
)

type MockLinker struct {
	Result *linking.Result
	Err    error
	Calls  [][2]string
}

func (m *MockLinker) Link(_ context.Context, question, amrText string) (*linking.Result, error) {
	m.Calls = append(m.Calls, [2]string{question, amrText})
	return m.Result, m.Err
}

type MockValidator struct {
	Output validation.Output
	TopKs  []int
	Asks   []bool
}

func (m *MockValidator) ValidateQuestion(_ context.Context, q validation.Question, topK int, acceptUnvalidatedAsk bool) validation.Output {
	m.TopKs = append(m.TopKs, topK)
	m.Asks = append(m.Asks, acceptUnvalidatedAsk)
	out := m.Output
	out.QID = q.ID
	out.Text = q.Text
	return out
}
