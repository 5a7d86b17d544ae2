// Package linking turns a question and its semantic graph into a ranked list of knowledge-graph
// relations: every flattened triple is scored in both orientations, the better one is kept, and
// overlapping triples are pruned before the final list is assembled.
package linking

import (
	"context"
	"fmt"

	"github.com/agenthands/rellink/internal/amr"
	"github.com/agenthands/rellink/internal/config"
	"github.com/agenthands/rellink/internal/core/entity"
	"github.com/agenthands/rellink/internal/core/evidence"
	"github.com/agenthands/rellink/internal/core/flatten"
	"github.com/agenthands/rellink/internal/core/lookup"
	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/core/scoring"
	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/metrics"
)

// Frames that mark imperative questions ("Give me...", "List...") rather than a relation.
var imperativeFrames = map[string]bool{"give-01": true, "list-01": true}

// candidateSources feed the relation candidates re-ranked by the similarity source.
var candidateSources = map[string]bool{evidence.KGEntity: true, evidence.Statistical: true, evidence.Neural: true}

// QuestionLookup returns per-question predictions, such as answer types.
type QuestionLookup interface {
	Get(question string) []string
}

// Result is the outcome of linking one question.
type Result struct {
	Relations []string             `json:"relations"`
	Items     []model.ResponseItem `json:"items"`
	Kept      int                  `json:"kept"`
}

type Service struct {
	// Sources run first, in this order. Similarity runs last over their candidates.
	Sources     []evidence.Source
	Similarity  evidence.Source
	Aggregator  scoring.Aggregator
	Scorer      scoring.Scorer
	AnswerTypes QuestionLookup
	Labels      lookup.RelationLabels

	// NormalizedSource is min-max normalized across directions; UnifiedSource is merged by max.
	NormalizedSource string
	UnifiedSource    string

	log *logger.Logger
}

func NewService(cfg config.LinkingConfig, sources []evidence.Source, similarity evidence.Source, answerTypes QuestionLookup, labels lookup.RelationLabels, log *logger.Logger) *Service {
	if answerTypes == nil {
		answerTypes = lookup.NewQuestionTable("answer_types", nil, log)
	}
	return &Service{
		Sources:          sources,
		Similarity:       similarity,
		Aggregator:       scoring.NewWeightedAggregator(cfg.ModuleWeights),
		Scorer:           scoring.MaxScorer{},
		AnswerTypes:      answerTypes,
		Labels:           labels,
		NormalizedSource: cfg.NormalizedSource,
		UnifiedSource:    cfg.UnifiedSource,
		log:              logger.OrNop(log),
	}
}

// Process returns the linked relations for a question.
func (s *Service) Process(ctx context.Context, question, amrText string) ([]string, error) {
	res, err := s.Link(ctx, question, amrText)
	if err != nil {
		return nil, err
	}
	return res.Relations, nil
}

// Link runs the whole pipeline and keeps the per-triple responses. Any failure aborts the
// question; no partial result is returned.
func (s *Service) Link(ctx context.Context, question, amrText string) (*Result, error) {
	log := s.log.With("question", question)

	g, repaired, err := amr.Load(amrText)
	if err != nil {
		log.Error("failed to parse semantic graph", "error", err, "amr", amrText)
		return nil, fmt.Errorf("%w: parse: %w", ErrInvalidGraph, err)
	}
	if repaired {
		log.Warn("semantic graph repaired before parsing")
	}

	flat, err := flatten.Flatten(question, g)
	if err != nil {
		log.Error("failed to flatten semantic graph", "error", err)
		return nil, fmt.Errorf("%w: flatten: %w", ErrInvalidGraph, err)
	}

	alignment := entity.Align(entity.NodeTexts(flat.Triples), entity.Extract(g))
	answerTypes := s.AnswerTypes.Get(question)
	datatype := lookup.AnswerDatatype(answerTypes)
	log.Debug("question analysed", "triples", len(flat.Triples), "alignments", alignment.URIs, "answer_types", answerTypes)

	params := evidence.Params{Reified: flat.Reified, NormalizedToSurface: alignment.NormalizedToSurface}

	var items []model.ResponseItem
	for _, t := range flat.Triples {
		if t.SubjType == "multi-sentence" {
			continue
		}
		if split := t.RelSplit(); imperativeFrames[split[0]] {
			continue
		}

		t.Text = question
		t = entity.LinkTriple(t, alignment, answerTypes)
		t.AnswerDatatype = datatype

		item, err := s.resolve(ctx, t, params)
		if err != nil {
			log.Error("failed to link triple", "error", err, "predicate", t.Predicate, "subject", t.SubjText, "object", t.ObjText)
			return nil, fmt.Errorf("link triple %s: %w", t.Predicate, err)
		}
		metrics.TriplesLinked.Inc()
		log.Debug("direction chosen", "predicate", item.Triple.Predicate, "score", item.Score, "top", item.Scores.MostCommon(10))
		items = append(items, item)
	}

	SortResponses(items)
	kept := PruneResponses(items)
	rels := FinalRelations(kept, len(kept), s.Labels)
	log.Info("question linked", "relations", rels, "triples", len(items), "kept", len(kept))

	return &Result{Relations: rels, Items: items, Kept: len(kept)}, nil
}

// resolve scores a triple and its inverse and keeps the better orientation.
func (s *Service) resolve(ctx context.Context, t model.Triple, p evidence.Params) (model.ResponseItem, error) {
	inv := t.Inverse()
	direct := s.ScoreTriple(ctx, t, p)
	inverse := s.ScoreTriple(ctx, inv, p)

	direct, inverse, err := NormalizeSource(direct, inverse, s.NormalizedSource)
	if err != nil {
		return model.ResponseItem{}, err
	}
	UnifyMax(direct, inverse, s.UnifiedSource)

	d := s.Aggregator.Aggregate(direct)
	i := s.Aggregator.Aggregate(inverse)
	return ChooseDirection(
		model.ResponseItem{Triple: t, Scores: d, Score: s.Scorer.Score(d)},
		model.ResponseItem{Triple: inv, Scores: i, Score: s.Scorer.Score(i)},
	), nil
}

// ScoreTriple collects every source's scores for one orientation. Literal subjects get an empty
// map from each source.
func (s *Service) ScoreTriple(ctx context.Context, t model.Triple, p evidence.Params) model.ScoreSet {
	set := model.ScoreSet{}
	literal := evidence.IsLiteralSubject(t)
	if literal {
		s.log.Debug("skipping triple with literal subject", "predicate", t.Predicate, "datatype", t.AnswerDatatype)
	}

	var candidates []string
	seen := map[string]bool{}
	for _, src := range s.Sources {
		if literal {
			set[src.Name()] = model.ScoreMap{}
			continue
		}
		scores := src.ScoreRelations(ctx, t, p)
		if scores == nil {
			scores = model.ScoreMap{}
		}
		set[src.Name()] = scores
		if !candidateSources[src.Name()] {
			continue
		}
		for _, r := range scores.MostCommon(0) {
			if !seen[r.Relation] {
				seen[r.Relation] = true
				candidates = append(candidates, r.Relation)
			}
		}
	}

	if s.Similarity != nil {
		if literal {
			set[s.Similarity.Name()] = model.ScoreMap{}
		} else {
			p.Candidates = candidates
			set[s.Similarity.Name()] = s.Similarity.ScoreRelations(ctx, t, p)
		}
	}
	return set
}
