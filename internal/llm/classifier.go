package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/rellink/internal/core/common"
	"github.com/agenthands/rellink/internal/core/model"
)

const classifyPrompt = `You are a relation classifier for the DBpedia knowledge graph.
Sentence: %s
Head entity: %s
Tail entity: %s
%s
List the DBpedia relations (as dbo: or dbp: curies) most likely to connect the head entity to the
tail entity in this sentence, with a confidence between 0 and 1.
Respond with JSON only, in the form:
{"relations": [{"relation": "dbo:birthPlace", "score": 0.9}]}`

type classifierResponse struct {
	Relations []struct {
		Relation string  `json:"relation"`
		Score    float64 `json:"score"`
	} `json:"relations"`
}

// RelationClassifier asks an LLM for the relations between the head and tail of a sentence.
// When Inventory is set, answers outside it are dropped.
type RelationClassifier struct {
	LLM       LLMClient
	Inventory map[string]bool
}

func NewRelationClassifier(client LLMClient, inventory []string) *RelationClassifier {
	c := &RelationClassifier{LLM: client}
	if len(inventory) > 0 {
		c.Inventory = make(map[string]bool, len(inventory))
		for _, r := range inventory {
			c.Inventory[r] = true
		}
	}
	return c
}

// Classify returns relations ordered by descending score.
func (c *RelationClassifier) Classify(ctx context.Context, req ClassifyRequest) ([]model.RelationScore, error) {
	var allowed string
	if len(c.Inventory) > 0 && len(c.Inventory) <= 200 {
		rels := make([]string, 0, len(c.Inventory))
		for r := range c.Inventory {
			rels = append(rels, r)
		}
		sort.Strings(rels)
		allowed = "Allowed relations: " + strings.Join(rels, ", ")
	}

	prompt := fmt.Sprintf(classifyPrompt, req.Text, req.Head(), req.Tail(), allowed)
	response, err := c.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate relations: %w", err)
	}

	result, err := common.ParseJSON[classifierResponse](response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse relations: %w", err)
	}

	var out []model.RelationScore
	for _, r := range result.Relations {
		rel := strings.TrimSpace(r.Relation)
		if rel == "" || (c.Inventory != nil && !c.Inventory[rel]) {
			continue
		}
		out = append(out, model.RelationScore{Relation: rel, Score: r.Score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
