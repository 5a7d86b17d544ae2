package validation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
)

// Weight given to an expanded edge the oracle rejected, when rejected edges are kept.
const invalidEdgeWeight = 0.5

var whTerms = []string{"Who", "What", "Where", "Which", "How many", "Count", "When", "List", "Name", "Give", "Was", "Is", "Does", "Did"}

var askTerms = map[string]bool{"was": true, "is": true, "does": true, "did": true}

// Path is one linked triple of a question: the two graph nodes, their knowledge-graph terms
// (an IRI or a ?variable) and the relation name without namespace.
type Path struct {
	A1AMR    string `json:"a1_amr"`
	A2AMR    string `json:"a2_amr"`
	A1KG     string `json:"a1_kg"`
	A2KG     string `json:"a2_kg"`
	Relation string `json:"relation"`
}

// QuestionID accepts both string and numeric ids.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = QuestionID(n.String())
	return nil
}

type Question struct {
	ID    QuestionID `json:"id"`
	Text  string     `json:"text"`
	Paths []Path     `json:"path"`
}

type Output struct {
	QID              QuestionID        `json:"q_id"`
	Text             string            `json:"text"`
	ValidatedTriples [][][3]string     `json:"validated_triples"`
	KGToNode         map[string]string `json:"kg2node"`
	Paths            []Path            `json:"paths"`
}

// WhTerm returns the question word of text: a whole word in its written case first, then
// case-insensitively, then as a substring. "" when there is none.
func WhTerm(text string) string {
	words := strings.Fields(text)
	for _, term := range whTerms {
		if containsWord(words, term) {
			return term
		}
	}
	lowerWords := strings.Fields(strings.ToLower(text))
	for _, term := range whTerms {
		if containsWord(lowerWords, strings.ToLower(term)) {
			return strings.ToLower(term)
		}
	}
	lower := strings.ToLower(text)
	for _, term := range whTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return strings.ToLower(term)
		}
	}
	return ""
}

// IsAskQuestion reports a yes/no question.
func IsAskQuestion(text string) bool {
	return askTerms[strings.ToLower(WhTerm(text))]
}

// ExpandPaths turns every path into its four candidate edges (dbo and dbp relation, both
// directions). Edges the oracle confirms weigh 1; rejected edges are dropped, or kept with weight
// 0.5 when includeInvalid is set. It also returns the graph node of every knowledge-graph term.
func (v *Validator) ExpandPaths(ctx context.Context, paths []Path, includeInvalid bool) ([][]model.Edge, map[string]string) {
	candidates := make([][]model.Edge, 0, len(paths))
	kgToNode := map[string]string{}
	for _, p := range paths {
		kgToNode[p.A1KG] = p.A1AMR
		kgToNode[p.A2KG] = p.A2AMR

		subj, obj := model.Term(p.A1KG), model.Term(p.A2KG)
		options := []model.Edge{
			{Subject: subj, Predicate: "dbo:" + p.Relation, Object: obj, Weight: 1},
			{Subject: subj, Predicate: "dbp:" + p.Relation, Object: obj, Weight: 1},
			{Subject: obj, Predicate: "dbo:" + p.Relation, Object: subj, Weight: 1},
			{Subject: obj, Predicate: "dbp:" + p.Relation, Object: subj, Weight: 1},
		}

		var oneHop []model.Edge
		for _, e := range options {
			switch {
			case v.ask(ctx, []model.Edge{e}):
				oneHop = append(oneHop, e)
			case includeInvalid:
				e.Weight = invalidEdgeWeight
				oneHop = append(oneHop, e)
			}
		}
		candidates = append(candidates, oneHop)
	}
	return candidates, kgToNode
}

// ValidateQuestion expands the question's paths and keeps the best graphs the knowledge graph
// confirms. acceptUnvalidatedAsk lets yes/no questions fall back to unconfirmed graphs early.
func (v *Validator) ValidateQuestion(ctx context.Context, q Question, topK int, acceptUnvalidatedAsk bool) Output {
	paths := make([]Path, len(q.Paths))
	for i, p := range q.Paths {
		p.Relation = strings.TrimPrefix(strings.TrimPrefix(p.Relation, kg.OntologyNS), kg.PropertyNS)
		paths[i] = p
	}
	includeInvalid := acceptUnvalidatedAsk && IsAskQuestion(q.Text)

	candidates, kgToNode := v.ExpandPaths(ctx, paths, includeInvalid)
	graphs := v.Validate(ctx, candidates, topK, includeInvalid)

	triples := make([][][3]string, 0, len(graphs))
	for _, g := range graphs {
		triples = append(triples, g.Patterns())
	}
	v.log.Info("question validated", "id", q.ID, "graphs", len(graphs))
	return Output{QID: q.ID, Text: q.Text, ValidatedTriples: triples, KGToNode: kgToNode, Paths: paths}
}

// ValidateAll validates questions one after the other; they share the cache. The cache is flushed
// once at the end so the last entries are not lost.
func (v *Validator) ValidateAll(ctx context.Context, questions []Question, topK int, acceptUnvalidatedAsk bool) ([]Output, error) {
	out := make([]Output, 0, len(questions))
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out = append(out, v.ValidateQuestion(ctx, q, topK, acceptUnvalidatedAsk))
	}
	return out, v.Cache.Flush(ctx)
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
