package eval

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecisionRecallF1(t *testing.T) {
	s := PrecisionRecallF1([]string{"dbo:owner", "dbo:ground", "dbo:owner"}, []string{"dbo:owner", "dbo:chairman"})
	assert.InDelta(t, 0.5, s.Precision, 1e-9)
	assert.InDelta(t, 0.5, s.Recall, 1e-9)
	assert.InDelta(t, 0.5, s.F1, 1e-9)

	assert.Equal(t, Score{}, PrecisionRecallF1(nil, []string{"a"}))
	assert.Equal(t, Score{}, PrecisionRecallF1([]string{"a"}, nil))
	assert.Equal(t, Score{}, PrecisionRecallF1([]string{"a"}, []string{"b"}))
}

func TestSummarize(t *testing.T) {
	got := Summarize([]Score{{Precision: 1, Recall: 0.5}, {Precision: 0, Recall: 0.5}})
	assert.Equal(t, 2, got.Questions)
	assert.InDelta(t, 0.5, got.Precision, 1e-9)
	assert.InDelta(t, 0.5, got.Recall, 1e-9)
	assert.InDelta(t, 0.5, got.F1, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
}

type mockLinker struct {
	mu      sync.Mutex
	answers map[string][]string
	err     error
	calls   int
}

func (m *mockLinker) Process(_ context.Context, question, _ string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.answers[question], nil
}

func TestRun(t *testing.T) {
	ds := Dataset{
		"q2": {Text: "Who owns Aston Villa?", Relations: []string{"dbo:owner"}},
		"q1": {Text: "Where was Obama born?", Relations: []string{"dbo:birthPlace"}},
		"q3": {Text: "No gold here", Relations: nil},
	}
	linker := &mockLinker{answers: map[string][]string{
		"Who owns Aston Villa?":  {"dbo:owner"},
		"Where was Obama born?": {"dbo:deathPlace"},
	}}

	results, summary, err := Run(context.Background(), linker, ds, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "q1", results[0].ID)
	assert.Equal(t, "q2", results[1].ID)
	assert.Equal(t, 1.0, results[1].Score.F1)
	assert.Equal(t, 2, summary.Questions)
	assert.InDelta(t, 0.5, summary.Precision, 1e-9)
	assert.Equal(t, 2, linker.calls)
}

func TestRun_ErrorStops(t *testing.T) {
	ds := Dataset{"q1": {Text: "x", Relations: []string{"a"}}}
	_, _, err := Run(context.Background(), &mockLinker{err: errors.New("boom")}, ds, 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "q1")
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"q1": {"text": "Who?", "extended_amr": "(a / amr-unknown)", "relations": ["dbo:owner"]}}`), 0o644))
	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"dbo:owner"}, ds["q1"].Relations)

	_, err = LoadDataset(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
