// Package eval measures linked relations against gold relations: precision, recall and F1 per
// question and their macro averages over a dataset.
package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/rellink/internal/logger"
)

// Item is one annotated question.
type Item struct {
	Text        string   `json:"text"`
	ExtendedAMR string   `json:"extended_amr"`
	Relations   []string `json:"relations"`
	SPARQL      string   `json:"sparql,omitempty"`
}

// Dataset maps question ids to questions.
type Dataset map[string]Item

func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return ds, nil
}

type Score struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// PrecisionRecallF1 compares predictions with gold relations. Precision counts distinct
// predictions; recall divides by the gold list as given. Either side empty scores zero.
func PrecisionRecallF1(predictions, golds []string) Score {
	if len(predictions) == 0 || len(golds) == 0 {
		return Score{}
	}
	gold := map[string]bool{}
	for _, g := range golds {
		gold[g] = true
	}
	pred := map[string]bool{}
	for _, p := range predictions {
		pred[p] = true
	}
	hits := 0
	for p := range pred {
		if gold[p] {
			hits++
		}
	}
	p := float64(hits) / float64(len(pred))
	r := float64(hits) / float64(len(golds))
	return Score{Precision: p, Recall: r, F1: F1(p, r)}
}

func F1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Summary holds macro-averaged precision and recall; F1 is computed from the two averages.
type Summary struct {
	Questions int     `json:"questions"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

func Summarize(scores []Score) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	var p, r float64
	for _, s := range scores {
		p += s.Precision
		r += s.Recall
	}
	n := float64(len(scores))
	return Summary{Questions: len(scores), Precision: p / n, Recall: r / n, F1: F1(p/n, r/n)}
}

// Linker produces the relations of one question.
type Linker interface {
	Process(ctx context.Context, question, amrText string) ([]string, error)
}

type Result struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Gold      []string `json:"gold"`
	Predicted []string `json:"predicted"`
	Score     Score    `json:"score"`
}

// Run links every question with gold relations, at most workers at a time, and scores the
// output. The first linking error stops the run.
func Run(ctx context.Context, linker Linker, ds Dataset, workers int, log *logger.Logger) ([]Result, Summary, error) {
	log = logger.OrNop(log)
	ids := make([]string, 0, len(ds))
	for id, it := range ds {
		if len(it.Relations) == 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]Result, len(ids))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, id := range ids {
		i, id := i, id
		it := ds[id]
		g.Go(func() error {
			predicted, err := linker.Process(gctx, it.Text, it.ExtendedAMR)
			if err != nil {
				return fmt.Errorf("question %s: %w", id, err)
			}
			results[i] = Result{
				ID: id, Text: it.Text, Gold: it.Relations, Predicted: predicted,
				Score: PrecisionRecallF1(predicted, it.Relations),
			}

			mu.Lock()
			done++
			log.Debug("question scored", "id", id, "done", done, "total", len(ids), "f1", results[i].Score.F1)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	scores := make([]Score, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	return results, Summarize(scores), nil
}
