package validation

import (
	"context"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
)

// MockOracle answers true for the queries in True and false otherwise.
type MockOracle struct {
	True  map[string]bool
	Err   error
	Calls []string
}

func (m *MockOracle) Ask(_ context.Context, edges []model.Edge) (bool, error) {
	q := kg.AskQuery(edges)
	m.Calls = append(m.Calls, q)
	if m.Err != nil {
		return false, m.Err
	}
	return m.True[q], nil
}

func (m *MockOracle) Allow(edges ...model.Edge) {
	if m.True == nil {
		m.True = map[string]bool{}
	}
	m.True[kg.AskQuery(edges)] = true
}

type MockStore struct {
	Saves [][]string
}

func (m *MockStore) Load(context.Context) (map[string]bool, error) { return nil, nil }

func (m *MockStore) Save(_ context.Context, entries map[string]bool) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	m.Saves = append(m.Saves, keys)
	return nil
}
