// Package entity reads the linked entities embedded in an extended semantic graph and attaches
// their identifiers and classes to flattened triples.
package entity

import (
	"strings"

	"github.com/agenthands/rellink/internal/amr"
	"github.com/agenthands/rellink/internal/core/flatten"
	"github.com/agenthands/rellink/internal/core/model"
	"github.com/agenthands/rellink/internal/kg"
)

type Entity struct {
	SurfaceForm string   `json:"surface_form"`
	URI         string   `json:"uri"`
	Types       []string `json:"types,omitempty"`
}

// Extract collects the entity annotations (surface_form, uri and type edges) of the graph.
// Surface forms are lower-cased. Entities without a surface form are dropped; a repeated
// surface form keeps the later annotation.
func Extract(g *amr.Graph) []Entity {
	if g == nil {
		return nil
	}
	var order []string
	byVar := map[string]*Entity{}
	get := func(v string) *Entity {
		e, ok := byVar[v]
		if !ok {
			e = &Entity{}
			byVar[v] = e
			order = append(order, v)
		}
		return e
	}

	for _, t := range g.Triples {
		src, tgt := clean(t.Source), clean(t.Target)
		switch t.Role {
		case "surface_form":
			get(src).SurfaceForm = strings.ToLower(tgt)
		case "uri":
			get(src).URI = tgt
		case "type":
			e := get(src)
			if !contains(e.Types, tgt) {
				e.Types = append(e.Types, tgt)
			}
		}
	}

	var out []Entity
	index := map[string]int{}
	for _, v := range order {
		e := byVar[v]
		if e.SurfaceForm == "" {
			continue
		}
		if i, ok := index[e.SurfaceForm]; ok {
			out[i] = *e
			continue
		}
		index[e.SurfaceForm] = len(out)
		out = append(out, *e)
	}
	return out
}

// Alignment ties graph node texts to knowledge-graph identifiers.
type Alignment struct {
	// node text or type (lower-cased) -> resource or class IRI
	URIs map[string]string
	// normalized surface form -> surface form as written in the question
	NormalizedToSurface map[string]string
}

// NodeTexts returns the lower-cased texts and types of every triple's two sides.
func NodeTexts(triples []model.Triple) map[string]bool {
	out := map[string]bool{}
	for _, t := range triples {
		out[strings.ToLower(t.SubjText)] = true
		out[strings.ToLower(t.SubjType)] = true
		out[strings.ToLower(t.ObjText)] = true
		out[strings.ToLower(t.ObjType)] = true
	}
	return out
}

// Align matches entity surface forms against node texts: as written, lower-cased, and with the
// last word lemmatised.
func Align(nodes map[string]bool, entities []Entity) Alignment {
	a := Alignment{URIs: map[string]string{}, NormalizedToSurface: map[string]string{}}
	for _, e := range entities {
		if nodes[e.SurfaceForm] {
			a.URIs[e.SurfaceForm] = e.URI
		}
		if lower := strings.ToLower(e.SurfaceForm); nodes[lower] {
			a.URIs[lower] = e.URI
		}
		norm := NormalizedTerm(e.SurfaceForm)
		a.NormalizedToSurface[norm] = e.SurfaceForm
		if nodes[norm] {
			a.URIs[norm] = e.URI
		}
	}
	return a
}

// NormalizedTerm lemmatises the last word of a surface form.
func NormalizedTerm(surface string) string {
	words := strings.Fields(surface)
	if len(words) == 0 {
		return surface
	}
	words[len(words)-1] = flatten.Lemmatize(words[len(words)-1])
	return strings.Join(words, " ")
}

// LinkTriple fills the subject and object IRIs and class curies of t. Classes come from the
// aligned entity, then from the node type, then from the predicted answer type for the unknown
// side.
func LinkTriple(t model.Triple, a Alignment, answerTypes []string) model.Triple {
	var answerType string
	if len(answerTypes) > 0 && strings.HasPrefix(answerTypes[0], kg.OntologyNS) {
		answerType = answerTypes[0]
	}

	subjURI, subjTypeURI := a.resolve(t.SubjText, t.SubjType)
	if subjTypeURI == "" {
		subjTypeURI = ClassOf(t.SubjType)
	}
	if subjTypeURI == "" && t.SubjectIsUnknown() {
		subjTypeURI = answerType
	}

	objURI, objTypeURI := a.resolve(t.ObjText, t.ObjType)
	if objTypeURI == "" {
		objTypeURI = ClassOf(t.ObjType)
	}
	if objTypeURI == "" && t.ObjectIsUnknown() {
		objTypeURI = answerType
	}

	t.SubjURI = subjURI
	t.SubjTypeURI = compact(subjTypeURI)
	t.ObjURI = objURI
	t.ObjTypeURI = compact(objTypeURI)
	return t
}

// resolve looks up a side by its text, then by its type; the type wins when both align.
func (a Alignment) resolve(text, typ string) (uri, typeURI string) {
	for _, key := range []string{strings.ToLower(text), strings.ToLower(typ)} {
		v, ok := a.URIs[key]
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(v, kg.ResourceNS):
			uri = v
		case strings.HasPrefix(v, kg.OntologyNS):
			typeURI = v
		}
	}
	return uri, typeURI
}

func compact(typeURI string) string {
	return strings.Replace(typeURI, kg.OntologyNS, "dbo:", 1)
}

func clean(s string) string {
	return strings.NewReplacer(`'`, "", `"`, "").Replace(s)
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
