package evidence

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/logger"
)

// Score is a mapping score. Tables written by older tooling store scores as strings ("3.0"),
// so both forms are accepted.
type Score float64

func (s *Score) UnmarshalYAML(value *yaml.Node) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(value.Value), 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", value.Value, err)
	}
	*s = Score(f)
	return nil
}

type RelScore struct {
	Rel   string `yaml:"rel"`
	Score Score  `yaml:"score"`
}

// MappingTables are the PropBank to knowledge-graph mapping statistics.
type MappingTables struct {
	// RelArgScores is keyed by full predicates ("own-01.arg0.arg1"), optionally suffixed with a
	// reified relation.
	RelArgScores map[string][]RelScore `yaml:"rel_arg_scores"`
	// RelationScores is keyed by frame ("own-01").
	RelationScores map[string][]RelScore `yaml:"relation_scores"`
	// BinaryRelationScores is keyed by two-token predicates ("city.location").
	BinaryRelationScores map[string][]RelScore `yaml:"binary_relation_scores"`
}

func LoadMappingTables(path string) (*MappingTables, error) {
	t := &MappingTables{}
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping tables: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse mapping tables: %w", err)
	}
	return t, nil
}

// StatisticalSource scores relations from mapping statistics between frame arguments and
// knowledge-graph relations.
type StatisticalSource struct {
	Tables *MappingTables
	log    *logger.Logger
}

func NewStatisticalSource(tables *MappingTables, log *logger.Logger) *StatisticalSource {
	if tables == nil {
		tables = &MappingTables{}
	}
	return &StatisticalSource{Tables: tables, log: logger.OrNop(log).With("source", Statistical)}
}

func (s *StatisticalSource) Name() string { return Statistical }

func (s *StatisticalSource) ScoreRelations(_ context.Context, t model.Triple, p Params) model.ScoreMap {
	scores := model.ScoreMap{}
	split := t.RelSplit()
	predicate := strings.Join(split, ".")

	var rels []RelScore
	switch len(split) {
	case 3:
		rels = s.frameRelations(split, predicate, p.Reified[t.PredicateID])
	case 2:
		rels = s.Tables.BinaryRelationScores[predicate]
	case 1:
		rels = s.Tables.RelationScores[split[0]]
	}

	for _, r := range rels {
		scores[r.Rel] += float64(r.Score)
	}
	s.log.Debug("statistical relation scores", "predicate", predicate, "top", scores.MostCommon(10))
	return scores
}

func (s *StatisticalSource) frameRelations(split []string, predicate, reified string) []RelScore {
	frame := split[0]
	// time and quantity subjects say nothing about the relation; imperative frames have none
	if split[1] == "time" || split[1] == "quant" || frame == "give-01" || frame == "list-01" {
		return nil
	}

	key := predicate
	if reified != "" {
		key = predicate + "." + reified
	}
	if rels, ok := s.Tables.RelArgScores[key]; ok {
		return rels
	}
	if rels, ok := s.Tables.RelationScores[frame]; ok {
		return rels
	}

	// fall back to another sense of the same lemma
	if len(frame) < 2 {
		return nil
	}
	stem := frame[:len(frame)-2]
	for i := 1; i < 5; i++ {
		if rels, ok := s.Tables.RelationScores[fmt.Sprintf("%s0%d", stem, i)]; ok {
			return rels
		}
	}
	return nil
}
