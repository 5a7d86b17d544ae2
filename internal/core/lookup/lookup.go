// Package lookup loads the read-only tables consulted while linking: predicted answer types and
// contextual relations per question, datatype relation sets and relation labels. Tables are
// loaded once and never modified; misses return an empty result with a warning.
package lookup

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/logger"
)

// Answer types that denote a literal rather than an entity.
var literalTypes = map[string]bool{"AGE": true, "CARDINAL": true, "DATE": true, "MEASURE": true}

// loadYAML decodes a YAML (or JSON) file into out. An empty path leaves out untouched.
func loadYAML(path string, out interface{}) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// QuestionTable maps exact question text to an ordered list of values.
type QuestionTable struct {
	name    string
	entries map[string][]string
	log     *logger.Logger
}

func NewQuestionTable(name string, entries map[string][]string, log *logger.Logger) *QuestionTable {
	if entries == nil {
		entries = map[string][]string{}
	}
	return &QuestionTable{name: name, entries: entries, log: logger.OrNop(log)}
}

// LoadQuestionTable reads a question table from a YAML or JSON file.
func LoadQuestionTable(name, path string, log *logger.Logger) (*QuestionTable, error) {
	entries := map[string][]string{}
	if err := loadYAML(path, &entries); err != nil {
		return nil, err
	}
	t := NewQuestionTable(name, entries, log)
	t.log.Info("lookup table loaded", "table", name, "entries", len(entries))
	return t, nil
}

func (t *QuestionTable) Get(question string) []string {
	if v, ok := t.entries[question]; ok {
		return v
	}
	t.log.Warn("question not found in lookup table", "table", t.name, "question", question)
	return nil
}

func (t *QuestionTable) Len() int { return len(t.entries) }

// AnswerDatatype returns the literal answer type when the top predicted type is one, "" otherwise.
func AnswerDatatype(answerTypes []string) string {
	if len(answerTypes) > 0 && literalTypes[answerTypes[0]] {
		return answerTypes[0]
	}
	return ""
}

// DatatypeRelations lists the relations whose range is numeric or a date.
type DatatypeRelations struct {
	Numeric map[string]bool
	Date    map[string]bool
}

func LoadDatatypeRelations(path string) (*DatatypeRelations, error) {
	var raw struct {
		Numeric []string `yaml:"numeric"`
		Date    []string `yaml:"date"`
	}
	if err := loadYAML(path, &raw); err != nil {
		return nil, err
	}
	return NewDatatypeRelations(raw.Numeric, raw.Date), nil
}

func NewDatatypeRelations(numeric, date []string) *DatatypeRelations {
	d := &DatatypeRelations{Numeric: map[string]bool{}, Date: map[string]bool{}}
	for _, r := range numeric {
		d.Numeric[r] = true
	}
	for _, r := range date {
		d.Date[r] = true
	}
	return d
}

// Matching returns the relations in rels whose range fits the answer datatype.
func (d *DatatypeRelations) Matching(datatype string, rels []string) []string {
	var set map[string]bool
	switch datatype {
	case "AGE", "CARDINAL", "MEASURE":
		set = d.Numeric
	case "DATE":
		set = d.Date
	default:
		return nil
	}
	var out []string
	for _, r := range rels {
		if set[r] {
			out = append(out, r)
		}
	}
	return out
}

// RelationLabels maps relation curies to their natural-language label.
type RelationLabels map[string]string

// LoadRelationLabels reads a "property<TAB>label" file. Only DBpedia properties are kept, compacted
// to dbo:/dbp: curies; the first label of a property wins.
func LoadRelationLabels(path string) (RelationLabels, error) {
	labels := RelationLabels{}
	if path == "" {
		return labels, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		parts := strings.SplitN(sc.Text(), "\t", 2)
		if len(parts) != 2 {
			continue
		}
		prop, label := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if !strings.Contains(prop, "dbpedia.org") {
			continue
		}
		prop = kg.Curie(prop)
		if _, ok := labels[prop]; !ok {
			labels[prop] = label
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return labels, nil
}

func (l RelationLabels) Has(rel string) bool {
	_, ok := l[rel]
	return ok
}
