package linking

import (
	"errors"
	"math"

	"github.com/agenthands/rellink/internal/core/model"
)

// ErrSourceMismatch is returned when the two directions of a triple were scored by different
// evidence sources.
var ErrSourceMismatch = errors.New("direct and inverse scores come from different evidence sources")

// ErrInvalidGraph wraps parse and flatten failures of the input graph.
var ErrInvalidGraph = errors.New("invalid semantic graph")

// NormalizeSource min-max normalizes one source's scores over the union of both directions'
// values. Other sources are passed through unchanged. When all values are equal they become 0.
func NormalizeSource(direct, inverse model.ScoreSet, source string) (model.ScoreSet, model.ScoreSet, error) {
	if !direct.SameSources(inverse) {
		return nil, nil, ErrSourceMismatch
	}

	outDirect := make(model.ScoreSet, len(direct))
	outInverse := make(model.ScoreSet, len(inverse))
	for name := range direct {
		if name != source {
			outDirect[name] = direct[name]
			outInverse[name] = inverse[name]
			continue
		}
		lo, hi, ok := bounds(direct[name], inverse[name])
		if !ok {
			outDirect[name] = model.ScoreMap{}
			outInverse[name] = model.ScoreMap{}
			continue
		}
		outDirect[name] = rescale(direct[name], lo, hi)
		outInverse[name] = rescale(inverse[name], lo, hi)
	}
	return outDirect, outInverse, nil
}

func bounds(maps ...model.ScoreMap) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, m := range maps {
		for _, v := range m {
			ok = true
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, ok
}

func rescale(m model.ScoreMap, lo, hi float64) model.ScoreMap {
	out := make(model.ScoreMap, len(m))
	for k, v := range m {
		if hi == lo {
			out[k] = 0
			continue
		}
		out[k] = (v - lo) / (hi - lo)
	}
	return out
}

// UnifyMax replaces one source's map in both directions by their elementwise maximum, so that
// source cannot favour either orientation.
func UnifyMax(direct, inverse model.ScoreSet, source string) {
	d, dok := direct[source]
	i, iok := inverse[source]
	if !dok && !iok {
		return
	}
	unified := model.MaxMerge(d, i)
	direct[source] = unified
	inverse[source] = unified.Clone()
}

// ChooseDirection keeps the direct orientation only when it scores strictly higher. Equal
// scores select the inverse orientation; the conflicting tie rule and the reason for this
// choice are recorded under "Direction tie-break" in DESIGN.md.
func ChooseDirection(direct, inverse model.ResponseItem) model.ResponseItem {
	if direct.Score > inverse.Score {
		return direct
	}
	return inverse
}
