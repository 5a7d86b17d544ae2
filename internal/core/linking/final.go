package linking

import (
	"sort"
	"strings"

	"github.com/agenthands/rellink/internal/core/lookup"
	"github.com/agenthands/rellink/internal/core/model"
)

// SortResponses orders items by descending score; equal scores keep triple order.
func SortResponses(items []model.ResponseItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// PruneResponses drops every item whose top two relations were all contributed by earlier
// items. Items must be sorted by descending score. The number of kept items is the size of
// the final relation list.
func PruneResponses(items []model.ResponseItem) []model.ResponseItem {
	var kept []model.ResponseItem
	seen := map[string]bool{}
	for _, it := range items {
		top := it.Scores.MostCommon(2)
		fresh := false
		for _, r := range top {
			if !seen[r.Relation] {
				fresh = true
				break
			}
		}
		if !fresh {
			continue
		}
		kept = append(kept, it)
		for _, r := range top {
			seen[r.Relation] = true
		}
	}
	return kept
}

// FinalRelations picks up to budget relations: the best relation of each kept item first, then
// the best of the items' summed scores. A dbp: relation whose dbo: twin has a label brings the
// twin along, beyond the budget.
func FinalRelations(kept []model.ResponseItem, budget int, labels lookup.RelationLabels) []string {
	out := []string{}
	added := map[string]bool{}
	merged := model.ScoreMap{}

	for _, it := range kept {
		if len(it.Scores) == 0 {
			continue
		}
		if top := it.Scores.MostCommon(1)[0].Relation; !added[top] {
			out = append(out, top)
			added[top] = true
		}
		// items after the budget is reached do not feed the fallback
		if len(out) == budget {
			break
		}
		merged.AddWeighted(it.Scores, 1)
	}

	for _, r := range merged.MostCommon(0) {
		if len(out) >= budget {
			break
		}
		if r.Score <= 0 || added[r.Relation] {
			continue
		}
		out = append(out, r.Relation)
		added[r.Relation] = true
	}

	var aliases []string
	for _, rel := range out {
		if !strings.HasPrefix(rel, "dbp:") {
			continue
		}
		if alias := "dbo:" + strings.TrimPrefix(rel, "dbp:"); labels.Has(alias) {
			aliases = append(aliases, alias)
		}
	}
	return append(out, aliases...)
}
