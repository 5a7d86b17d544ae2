// Package kg defines the knowledge-graph side of linking: the prefix map used to compact IRIs,
// the existence and property-listing query strings, and the interfaces the transports implement.
package kg

import (
	"context"
	"strings"

	"github.com/agenthands/rellink/internal/core/model"
)

const (
	ResourceNS = "http://dbpedia.org/resource/"
	OntologyNS = "http://dbpedia.org/ontology/"
	PropertyNS = "http://dbpedia.org/property/"
)

// Prefixes maps namespaces to their curie prefix. Order matters for namespaces that share a
// leading substring, so it is a slice.
var Prefixes = []struct{ NS, Prefix string }{
	{OntologyNS, "dbo:"},
	{PropertyNS, "dbp:"},
	{"http://www.ontologydesignpatterns.org/ont/dul/DUL.owl#", "dul:"},
	{"http://dbpedia.org/class/yago/", "yago:"},
	{"http://umbel.org/umbel/rc/", "umbel-rc:"},
	{"http://www.wikidata.org/entity/", "wd:"},
	{"http://xmlns.com/foaf/0.1/", "foaf:"},
	{"http://purl.org/dc/terms/", "dct:"},
	{"http://purl.org/linguistics/gold/", "gold:"},
	{"http://www.w3.org/1999/02/22-rdf-syntax-ns#", "rdf:"},
	{"http://www.w3.org/2002/07/owl#", "owl:"},
	{"http://www.w3.org/2000/01/rdf-schema#", "rdfs:"},
}

// IgnoredProperties are bookkeeping properties that never name a semantic relation.
var IgnoredProperties = map[string]bool{
	"dbo:wikiPageOutDegree":    true,
	"dbo:wikiPageLength":       true,
	"dbo:wikiPageWikiLinkText": true,
	"dbo:wikiPageID":           true,
}

// Curie compacts iri with the known prefixes. Unknown namespaces are returned unchanged.
func Curie(iri string) string {
	for _, p := range Prefixes {
		iri = strings.ReplaceAll(iri, p.NS, p.Prefix)
	}
	return iri
}

// Expand is the inverse of Curie for the dbo/dbp prefixes.
func Expand(curie string) string {
	switch {
	case strings.HasPrefix(curie, "dbo:"):
		return OntologyNS + strings.TrimPrefix(curie, "dbo:")
	case strings.HasPrefix(curie, "dbp:"):
		return PropertyNS + strings.TrimPrefix(curie, "dbp:")
	}
	return curie
}

// IsRelation reports whether a curie is in one of the two relation namespaces.
func IsRelation(curie string) bool {
	return strings.HasPrefix(curie, "dbo:") || strings.HasPrefix(curie, "dbp:")
}

// Oracle answers boolean existence queries over a conjunction of edges.
type Oracle interface {
	Ask(ctx context.Context, edges []model.Edge) (bool, error)
}

// PropertyLister lists the relations found around bound entities.
type PropertyLister interface {
	ListProperties(ctx context.Context, p PropertyPattern) ([]string, error)
}

// PropertyPattern constrains a property listing. Subj and Obj are entity IRIs; SubjType and
// ObjType are class curies (e.g. "dbo:Person"). Strict patterns combine entities with types.
type PropertyPattern struct {
	Subj     string
	Obj      string
	SubjType string
	ObjType  string
	Strict   bool
}

// IsEmpty reports whether the pattern binds nothing and would list every property.
func (p PropertyPattern) IsEmpty() bool {
	if p.Strict {
		return p.Subj == "" && p.Obj == "" && (p.SubjType == "" || p.ObjType == "")
	}
	return p.Subj == "" && p.Obj == ""
}

// Weight is the evidence weight of a strict pattern: two bound entities or one entity plus the
// other side's type count double.
func (p PropertyPattern) Weight() float64 {
	switch {
	case p.Subj != "" && p.Obj != "":
		return 2
	case p.Subj != "":
		if p.ObjType != "" {
			return 2
		}
		return 1
	case p.Obj != "":
		if p.SubjType != "" {
			return 2
		}
		return 1
	case p.SubjType != "" && p.ObjType != "":
		return 1
	}
	return 0
}

// FilterRelations keeps dbo/dbp curies that are not bookkeeping properties.
func FilterRelations(props []string) []string {
	out := props[:0:0]
	for _, p := range props {
		if IsRelation(p) && !IgnoredProperties[p] {
			out = append(out, p)
		}
	}
	return out
}
