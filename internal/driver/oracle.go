package driver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
	"github.com/agenthands/rellink/internal/logger"
	"github.com/agenthands/rellink/internal/metrics"
)

const backendMemgraph = "memgraph"

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// MemgraphOracle answers existence queries and property listings from a Memgraph mirror of the
// knowledge graph.
type MemgraphOracle struct {
	Driver GraphDriver
	log    *logger.Logger
}

func NewMemgraphOracle(d GraphDriver, log *logger.Logger) *MemgraphOracle {
	return &MemgraphOracle{Driver: d, log: logger.OrNop(log).With("oracle", backendMemgraph)}
}

// Ask reports whether all edges hold at once. Variables shared between edges must bind to the
// same node.
func (o *MemgraphOracle) Ask(ctx context.Context, edges []model.Edge) (bool, error) {
	query, params := AskCypher(edges)
	res, err := o.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		metrics.OracleQueries.WithLabelValues(backendMemgraph, "error").Inc()
		return false, fmt.Errorf("memgraph ask: %w", err)
	}
	found := len(res.Records) > 0
	metrics.OracleQueries.WithLabelValues(backendMemgraph, fmt.Sprint(found)).Inc()
	return found, nil
}

// AskCypher translates a conjunction of edges into one MATCH over the mirror.
func AskCypher(edges []model.Edge) (string, map[string]interface{}) {
	params := map[string]interface{}{}
	patterns := make([]string, 0, len(edges))
	node := func(term string, slot string) string {
		term = strings.TrimSpace(term)
		if model.IsVariable(term) {
			return "(v_" + nonIdent.ReplaceAllString(strings.TrimPrefix(term, "?"), "_") + ":Resource)"
		}
		params[slot] = strings.TrimSuffix(strings.TrimPrefix(term, "<"), ">")
		return "(:Resource {uri: $" + slot + "})"
	}

	for i, e := range edges {
		s := node(e.Subject, fmt.Sprintf("s%d", i))
		o := node(e.Object, fmt.Sprintf("o%d", i))
		params[fmt.Sprintf("p%d", i)] = kg.Expand(e.Predicate)
		patterns = append(patterns, fmt.Sprintf("%s-[:REL {iri: $p%d}]->%s", s, i, o))
	}
	return "MATCH " + strings.Join(patterns, ", ") + " RETURN true AS found LIMIT 1", params
}

// ListProperties returns the curies of the relations matching p.
func (o *MemgraphOracle) ListProperties(ctx context.Context, p kg.PropertyPattern) ([]string, error) {
	query, params, ok := listingCypher(p)
	if !ok {
		return nil, nil
	}
	res, err := o.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("memgraph property listing: %w", err)
	}

	props := make([]string, 0, len(res.Records))
	for _, rec := range res.Records {
		v, ok := rec.Get("prop")
		if !ok {
			continue
		}
		if iri, ok := v.(string); ok {
			props = append(props, kg.Curie(iri))
		}
	}
	return props, nil
}

func listingCypher(p kg.PropertyPattern) (string, map[string]interface{}, bool) {
	params := map[string]interface{}{
		"subj":     p.Subj,
		"obj":      p.Obj,
		"subjType": kg.Expand(p.SubjType),
		"objType":  kg.Expand(p.ObjType),
		"rdfType":  RDFType,
	}
	switch {
	case p.Subj != "" && p.Obj != "":
		return PropertiesBetweenQuery, params, true
	case p.Subj != "":
		if p.Strict && p.ObjType != "" {
			return PropertiesOfSubjectTypedObjectQuery, params, true
		}
		return PropertiesOfSubjectQuery, params, true
	case p.Obj != "":
		if p.Strict && p.SubjType != "" {
			return PropertiesOfObjectTypedSubjectQuery, params, true
		}
		return PropertiesOfObjectQuery, params, true
	case p.Strict && p.SubjType != "" && p.ObjType != "":
		return PropertiesBetweenTypesQuery, params, true
	}
	return "", nil, false
}

// Statement is one knowledge-graph triple of full IRIs.
type Statement struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// SaveStatements merges statements into the mirror in batches.
func (o *MemgraphOracle) SaveStatements(ctx context.Context, statements []Statement, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 500
	}
	for start := 0; start < len(statements); start += batchSize {
		end := start + batchSize
		if end > len(statements) {
			end = len(statements)
		}
		rows := make([]interface{}, 0, end-start)
		for _, st := range statements[start:end] {
			rows = append(rows, map[string]interface{}{
				"subject":   st.Subject,
				"predicate": kg.Expand(st.Predicate),
				"object":    st.Object,
			})
		}
		if _, err := o.Driver.ExecuteQuery(ctx, SaveStatementQuery, map[string]interface{}{"rows": rows}); err != nil {
			return fmt.Errorf("failed to save statements %d-%d: %w", start, end, err)
		}
		o.log.Debug("statements saved", "from", start, "to", end)
	}
	return nil
}

// CountStatements returns the number of statements in the mirror.
func (o *MemgraphOracle) CountStatements(ctx context.Context) (int64, error) {
	res, err := o.Driver.ExecuteQuery(ctx, CountStatementsQuery, nil)
	if err != nil {
		return 0, err
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	v, _ := res.Records[0].Get("statements")
	n, _ := v.(int64)
	return n, nil
}
