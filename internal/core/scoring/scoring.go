package scoring

import (
	"sort"

	"github.com/agenthands/rellink/internal/core/model"
)

// Aggregator fuses per-source score maps into one.
type Aggregator interface {
	Aggregate(set model.ScoreSet) model.ScoreMap
}

// Scorer reduces an aggregated map to a single confidence value.
type Scorer interface {
	Score(m model.ScoreMap) float64
}

// WeightedAggregator sums every source's scores multiplied by the source weight.
// Sources without a configured weight count once.
type WeightedAggregator struct {
	Weights map[string]float64
}

func NewWeightedAggregator(weights map[string]float64) *WeightedAggregator {
	return &WeightedAggregator{Weights: weights}
}

func (a *WeightedAggregator) Weight(source string) float64 {
	if w, ok := a.Weights[source]; ok {
		return w
	}
	return 1
}

func (a *WeightedAggregator) Aggregate(set model.ScoreSet) model.ScoreMap {
	out := model.ScoreMap{}
	// sources are summed in name order so repeated runs agree bit for bit
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.AddWeighted(set[name], a.Weight(name))
	}
	return out
}

// MaxScorer takes the best relation score as the triple's confidence.
type MaxScorer struct{}

func (MaxScorer) Score(m model.ScoreMap) float64 {
	return m.Max()
}
