package evidence

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/agenthands/rellink/internal/core/lookup"
	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/logger"
)

var (
	bracketed      = regexp.MustCompile(`\(.*\)`)
	wordTokens     = regexp.MustCompile(`\w+`)
	wordPunctToken = regexp.MustCompile(`\w+|[^\w\s]+`)
)

// SimilaritySource re-ranks the candidate relations proposed by the other sources by how close
// their labels are to the question text. Each candidate scores the sum of an embedding
// similarity and an exact label match bonus.
type SimilaritySource struct {
	Labels     lookup.RelationLabels
	Embeddings Embeddings
	log        *logger.Logger
}

func NewSimilaritySource(labels lookup.RelationLabels, emb Embeddings, log *logger.Logger) *SimilaritySource {
	if emb == nil {
		emb = StaticEmbeddings{}
	}
	return &SimilaritySource{Labels: labels, Embeddings: emb, log: logger.OrNop(log).With("source", Similarity)}
}

func (s *SimilaritySource) Name() string { return Similarity }

func (s *SimilaritySource) ScoreRelations(ctx context.Context, t model.Triple, p Params) model.ScoreMap {
	scores := model.ScoreMap{}
	if len(p.Candidates) == 0 {
		return scores
	}

	question := strings.ReplaceAll(removeStopWords(strings.ToLower(t.Text)), "?", "")
	// a linked entity's name tells nothing about the relation
	if t.SubjURI != "" && t.SubjText != "" {
		question = strings.ReplaceAll(question, strings.ToLower(t.SubjText), "")
	}
	if t.ObjURI != "" && t.ObjText != "" {
		question = strings.ReplaceAll(question, strings.ToLower(t.ObjText), "")
	}

	for _, rel := range p.Candidates {
		label, ok := s.label(rel)
		if !ok {
			scores[rel] = 0
			continue
		}
		scores[rel] = s.embeddingScore(ctx, question, label) + exactMatchScore(question, label)
	}
	s.log.Debug("similarity scores", "question", t.Text, "top", scores.MostCommon(10))
	return scores
}

// label returns the relation label without parenthesised qualifiers.
func (s *SimilaritySource) label(rel string) (string, bool) {
	l, ok := s.Labels[rel]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(bracketed.ReplaceAllString(l, "")), true
}

// embeddingScore averages, over the label's tokens, the best cosine similarity with any
// non-stop-word token of the question.
func (s *SimilaritySource) embeddingScore(ctx context.Context, question, label string) float64 {
	var words []string
	for _, tok := range wordTokens.FindAllString(question, -1) {
		if !isStopWord(tok) {
			words = append(words, tok)
		}
	}
	relTokens := strings.Fields(label)
	if len(relTokens) == 0 {
		return 0
	}

	total := 0.0
	for _, rt := range relTokens {
		best := 0.0
		rv, ok := s.Embeddings.Vector(ctx, rt)
		for i, ct := range words {
			sim := 0.0
			if ok {
				if cv, found := s.Embeddings.Vector(ctx, ct); found {
					sim = Cosine(rv, cv)
				}
			}
			if i == 0 || sim > best {
				best = sim
			}
		}
		total += best
	}
	return total / float64(len(relTokens))
}

// exactMatchScore returns the label's token count when some n-gram of the question has exactly
// the label's tokens (in any order), 0 otherwise.
func exactMatchScore(question, label string) float64 {
	relTokens := wordPunctToken.FindAllString(strings.ToLower(label), -1)
	n := len(relTokens)
	if n == 0 {
		return 0
	}
	want := sortedJoin(relTokens)

	ctxTokens := wordPunctToken.FindAllString(strings.ToLower(question), -1)
	for i := 0; i+n <= len(ctxTokens); i++ {
		if sortedJoin(ctxTokens[i:i+n]) == want {
			return float64(n)
		}
	}
	return 0
}

func sortedJoin(tokens []string) string {
	cp := append([]string(nil), tokens...)
	sort.Strings(cp)
	return strings.Join(cp, " ")
}
