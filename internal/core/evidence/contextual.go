package evidence

import (
	"context"

	"github.com/agenthands/rellink/internal/core/model"
)

// RelationTable returns the relations predicted for a question, best first.
type RelationTable interface {
	Get(question string) []string
}

// ContextualSource scores the relations predicted for the whole question, independent of the
// triple: 0.6 for the first five, 0.4 after that and 0.3 for the last one.
type ContextualSource struct {
	Table RelationTable
}

func NewContextualSource(table RelationTable) *ContextualSource {
	return &ContextualSource{Table: table}
}

func (s *ContextualSource) Name() string { return Contextual }

func (s *ContextualSource) ScoreRelations(_ context.Context, t model.Triple, _ Params) model.ScoreMap {
	if s.Table == nil {
		return model.ScoreMap{}
	}
	return ContextualScores(s.Table.Get(t.Text))
}

func ContextualScores(rels []string) model.ScoreMap {
	scores := model.ScoreMap{}
	for i, rel := range rels {
		switch {
		case i+1 == len(rels):
			scores[rel] = 0.3
		case i < 5:
			scores[rel] = 0.6
		default:
			scores[rel] = 0.4
		}
	}
	return scores
}
