package evidence

import (
	"context"

	"github.com/agenthands/rellink/internal/cache"
	"github.com/agenthands/rellink/internal/core/lookup"
	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/logger"
)

// KGEntitySource scores the relations attached to the triple's linked entities in the knowledge
// graph. Relations that also satisfy the type constraints, or whose range fits a literal answer,
// score higher than the rest.
type KGEntitySource struct {
	Lister    kg.PropertyLister
	Cache     *cache.Cache[[]string]
	Datatypes *lookup.DatatypeRelations
	log       *logger.Logger
}

func NewKGEntitySource(lister kg.PropertyLister, c *cache.Cache[[]string], datatypes *lookup.DatatypeRelations, log *logger.Logger) *KGEntitySource {
	if c == nil {
		c = cache.NewMemory[[]string]("properties")
	}
	if datatypes == nil {
		datatypes = lookup.NewDatatypeRelations(nil, nil)
	}
	return &KGEntitySource{
		Lister:    lister,
		Cache:     c,
		Datatypes: datatypes,
		log:       logger.OrNop(log).With("source", KGEntity),
	}
}

func (s *KGEntitySource) Name() string { return KGEntity }

func (s *KGEntitySource) ScoreRelations(ctx context.Context, t model.Triple, _ Params) model.ScoreMap {
	scores := model.ScoreMap{}
	if t.SubjURI == "" && t.ObjURI == "" && t.SubjTypeURI == "" && t.ObjTypeURI == "" {
		return scores
	}

	all := s.list(ctx, kg.PropertyPattern{Subj: t.SubjURI, Obj: t.ObjURI})

	strictPattern := kg.PropertyPattern{
		Subj: t.SubjURI, Obj: t.ObjURI,
		SubjType: t.SubjTypeURI, ObjType: t.ObjTypeURI,
		Strict: true,
	}
	strict := s.list(ctx, strictPattern)
	weight := strictPattern.Weight()

	var matched []string
	if t.ObjectIsUnknown() && t.AnswerDatatype != "" {
		matched = s.Datatypes.Matching(t.AnswerDatatype, all)
	}
	if t.ObjType == "ordinal-entity" {
		matched = s.Datatypes.Matching("CARDINAL", all)
	}
	if len(matched) > 0 {
		strict = matched
		weight = 2
	}

	inStrict := make(map[string]bool, len(strict))
	for _, rel := range strict {
		scores[rel] += weight
		inStrict[rel] = true
	}
	for _, rel := range all {
		if !inStrict[rel] {
			scores[rel]++
		}
	}

	s.log.Debug("kg relation scores", "all", len(all), "strict", len(strict), "weight", weight)
	return scores
}

// list returns the relations matching p, from the cache when the same query was seen before.
// Listing failures are logged and yield no relations; they are not cached.
func (s *KGEntitySource) list(ctx context.Context, p kg.PropertyPattern) []string {
	if p.IsEmpty() || s.Lister == nil {
		return nil
	}
	key := kg.SelectQuery(p)
	if rels, ok := s.Cache.Get(key); ok {
		return rels
	}

	s.log.Debug("property query not cached", "query", key)
	props, err := s.Lister.ListProperties(ctx, p)
	if err != nil {
		s.log.Warn("property listing failed", "query", key, "error", err)
		return nil
	}
	rels := kg.FilterRelations(props)
	if err := s.Cache.Put(ctx, key, rels); err != nil {
		s.log.Warn("failed to persist property cache", "error", err)
	}
	return rels
}
