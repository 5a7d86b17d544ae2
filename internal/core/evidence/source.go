// Package evidence holds the independent relation scorers. Every source maps a triple to relation
// scores; a source with nothing to say returns an empty map, never an error.
package evidence

import (
	"context"

	"github.com/agenthands/rellink/internal/core/model"
)

// Source names, used as ScoreSet keys and as config weight keys.
const (
	KGEntity    = "kg_entity_recommender_scores"
	Contextual  = "contextual_rel_recommender_scores"
	Statistical = "statistical_rel_mapping_scores"
	Neural      = "neural_model_scores"
	Similarity  = "similarity_based_scores"
)

// Names lists every source in scoring order.
var Names = []string{KGEntity, Contextual, Statistical, Neural, Similarity}

type Source interface {
	Name() string
	ScoreRelations(ctx context.Context, t model.Triple, p Params) model.ScoreMap
}

// Params carries per-question state shared by all sources.
type Params struct {
	// Reified maps reification frame variables to the relation they encode.
	Reified map[string]string
	// NormalizedToSurface maps lemmatised entity forms to their surface form in the question.
	NormalizedToSurface map[string]string
	// Candidates is the union of relations proposed by the other sources; only the similarity
	// source reads it.
	Candidates []string
}

// IsLiteralSubject reports whether the triple's subject is a literal (a datatype answer or an
// ordinal), in which case no source scores it.
func IsLiteralSubject(t model.Triple) bool {
	return (t.SubjectIsUnknown() && t.AnswerDatatype != "") || t.SubjType == "ordinal-entity"
}
