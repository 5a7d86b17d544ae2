package model

import "strings"

// Edge is a candidate knowledge-graph edge. Subject and Object are either a bracketed IRI
// ("<http://dbpedia.org/resource/X>") or a variable ("?uri"); Predicate is a curie.
type Edge struct {
	Subject   string  `json:"subject"`
	Predicate string  `json:"predicate"`
	Object    string  `json:"object"`
	Weight    float64 `json:"weight"`
}

// Graph is one candidate edge per triple position.
type Graph []Edge

func IsVariable(term string) bool {
	return strings.HasPrefix(term, "?")
}

// Term turns a raw KG identifier into a query term: variables pass through, IRIs get brackets.
func Term(id string) string {
	if IsVariable(id) || strings.HasPrefix(id, "<") {
		return id
	}
	return "<" + id + ">"
}

// Score is the product of the edges' prior weights.
func (g Graph) Score() float64 {
	score := 1.0
	for _, e := range g {
		score *= e.Weight
	}
	return score
}

// Patterns drops the weights, leaving subject/predicate/object triples.
func (g Graph) Patterns() [][3]string {
	out := make([][3]string, len(g))
	for i, e := range g {
		out[i] = [3]string{e.Subject, e.Predicate, e.Object}
	}
	return out
}
