// Package validation checks candidate multi-hop graphs against the knowledge graph. Candidate
// graphs are tried in order of prior score with one conjunctive existence query each; answers
// are cached by query string.
package validation

import (
	"context"
	"sort"

	"github.com/agenthands/rellink/internal/cache"
	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/metrics"
)

const DefaultProbeBudget = 10

type Validator struct {
	Oracle kg.Oracle
	Cache  *cache.Cache[bool]
	// ProbeBudget bounds the graphs tried before unvalidated graphs are accepted.
	ProbeBudget int
	log         *logger.Logger
}

func NewValidator(oracle kg.Oracle, c *cache.Cache[bool], probeBudget int, log *logger.Logger) *Validator {
	if c == nil {
		c = cache.NewMemory[bool]("validation")
	}
	if probeBudget <= 0 {
		probeBudget = DefaultProbeBudget
	}
	return &Validator{Oracle: oracle, Cache: c, ProbeBudget: probeBudget, log: logger.OrNop(log)}
}

type scoredGraph struct {
	graph model.Graph
	score float64
}

// Validate returns the graphs, one edge per candidate list, that the oracle confirms. Graphs are
// tried by descending prior score; once topK graphs are confirmed the search stops at the first
// lower score. When nothing is confirmed the topK best graphs are returned unvalidated, and with
// acceptUnvalidated that happens as soon as the probe budget is spent.
func (v *Validator) Validate(ctx context.Context, candidates [][]model.Edge, topK int, acceptUnvalidated bool) []model.Graph {
	graphs := product(candidates)
	sort.SliceStable(graphs, func(i, j int) bool { return graphs[i].score > graphs[j].score })

	var validated []model.Graph
	attempted := 0
	lastScore := 0.0
	for _, g := range graphs {
		attempted++
		metrics.GraphsAttempted.Inc()
		if len(validated) >= topK && lastScore > g.score {
			return validated
		}
		lastScore = g.score

		if symmetric(g.graph) {
			v.log.Debug("skipping symmetric graph", "graph", g.graph)
			continue
		}

		if v.ask(ctx, g.graph) {
			v.log.Debug("graph validated", "graph", g.graph, "score", g.score)
			metrics.GraphsValidated.Inc()
			validated = append(validated, g.graph)
		}

		if acceptUnvalidated && len(validated) == 0 && attempted > v.ProbeBudget {
			v.log.Info("no graph validated within the probe budget, accepting unvalidated graphs", "attempted", attempted)
			return best(graphs, topK)
		}
	}

	if len(validated) == 0 && len(graphs) > 0 {
		return best(graphs, topK)
	}
	return validated
}

// ask answers an existence query from the cache or the oracle. Oracle failures count as false
// and are not cached.
func (v *Validator) ask(ctx context.Context, edges []model.Edge) bool {
	query := kg.AskQuery(edges)
	if found, ok := v.Cache.Get(query); ok {
		return found
	}
	if v.Oracle == nil {
		return false
	}

	found, err := v.Oracle.Ask(ctx, edges)
	if err != nil {
		v.log.Warn("existence query failed", "query", query, "error", err)
		return false
	}
	if err := v.Cache.Put(ctx, query, found); err != nil {
		v.log.Warn("failed to persist validation cache", "error", err)
	}
	return found
}

// symmetric reports a graph whose second edge has variables on both ends and repeats the first
// edge's subject and relation, or its relation and object. Such graphs are indistinguishable by a
// boolean query.
func symmetric(g model.Graph) bool {
	if len(g) < 2 || !model.IsVariable(g[1].Subject) || !model.IsVariable(g[1].Object) {
		return false
	}
	return g[0].Subject+g[0].Predicate == g[1].Subject+g[1].Predicate ||
		g[0].Predicate+g[0].Object == g[1].Predicate+g[1].Object
}

// product enumerates every choice of one edge per candidate list.
func product(candidates [][]model.Edge) []scoredGraph {
	if len(candidates) == 0 {
		return nil
	}
	graphs := []model.Graph{{}}
	for _, list := range candidates {
		next := make([]model.Graph, 0, len(graphs)*len(list))
		for _, g := range graphs {
			for _, e := range list {
				ng := make(model.Graph, len(g), len(g)+1)
				copy(ng, g)
				next = append(next, append(ng, e))
			}
		}
		graphs = next
	}

	out := make([]scoredGraph, len(graphs))
	for i, g := range graphs {
		out[i] = scoredGraph{graph: g, score: g.Score()}
	}
	return out
}

func best(graphs []scoredGraph, k int) []model.Graph {
	if k > len(graphs) {
		k = len(graphs)
	}
	if k < 0 {
		k = 0
	}
	out := make([]model.Graph, k)
	for i := range out {
		out[i] = graphs[i].graph
	}
	return out
}
