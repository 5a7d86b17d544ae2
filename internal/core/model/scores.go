package model

import (
	"math"
	"sort"
)

// ScoreMap maps a relation curie to a non-negative score. A missing key means no evidence.
type ScoreMap map[string]float64

type RelationScore struct {
	Relation string  `json:"relation"`
	Score    float64 `json:"score"`
}

func (m ScoreMap) Clone() ScoreMap {
	out := make(ScoreMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AddWeighted adds weight*score for every entry of other into m.
func (m ScoreMap) AddWeighted(other ScoreMap, weight float64) {
	for k, v := range other {
		m[k] += v * weight
	}
}

// MaxMerge returns a new map holding, per key, the larger value of a and b.
// A key present on one side only keeps that side's value.
func MaxMerge(a, b ScoreMap) ScoreMap {
	out := a.Clone()
	for k, v := range b {
		if cur, ok := out[k]; !ok || v > cur {
			out[k] = v
		}
	}
	return out
}

// Max returns the largest score, or 0 for an empty map.
func (m ScoreMap) Max() float64 {
	if len(m) == 0 {
		return 0
	}
	best := math.Inf(-1)
	for _, v := range m {
		if v > best {
			best = v
		}
	}
	return best
}

// MostCommon returns the n highest-scored relations, all of them when n <= 0.
// Equal scores are ordered by relation name so results are stable.
func (m ScoreMap) MostCommon(n int) []RelationScore {
	out := make([]RelationScore, 0, len(m))
	for k, v := range m {
		out = append(out, RelationScore{Relation: k, Score: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Relation < out[j].Relation
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ScoreSet holds one ScoreMap per evidence source name.
type ScoreSet map[string]ScoreMap

func (s ScoreSet) Clone() ScoreSet {
	out := make(ScoreSet, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// SameSources reports whether both sets were produced by the same evidence sources.
func (s ScoreSet) SameSources(other ScoreSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// ResponseItem is the resolved-direction result for one triple.
type ResponseItem struct {
	Triple Triple   `json:"triple"`
	Scores ScoreMap `json:"scores"`
	Score  float64  `json:"score"`
}
