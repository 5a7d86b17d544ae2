package kg

import (
	"strings"

	"github.com/agenthands/rellink/internal/core/model"
)

const askPrefix = "PREFIX dbo: <http://dbpedia.org/ontology/>                     PREFIX dbp: <http://dbpedia.org/property/> ASK WHERE {"

const selectPrefix = "PREFIX dbo: <http://dbpedia.org/ontology/>  SELECT DISTINCT ?prop WHERE { "

// AskQuery builds the conjunctive existence query over edges. The string is also the cache key,
// so its whitespace must not change.
func AskQuery(edges []model.Edge) string {
	var b strings.Builder
	b.WriteString(askPrefix)
	for _, e := range edges {
		b.WriteString(model.Term(e.Subject))
		b.WriteByte(' ')
		b.WriteString(e.Predicate)
		b.WriteByte(' ')
		b.WriteString(model.Term(e.Object))
		b.WriteString(" . ")
	}
	b.WriteString(" } ")
	return b.String()
}

// SelectQuery builds the property listing query for p. It is the cache key for listings and the
// query sent to SPARQL endpoints.
func SelectQuery(p PropertyPattern) string {
	var pattern string
	if p.Strict {
		pattern = strictPattern(p)
	} else {
		switch {
		case p.Subj != "" && p.Obj != "":
			pattern = " <" + p.Subj + "> ?prop <" + p.Obj + "> . "
		case p.Subj != "":
			pattern = " <" + p.Subj + "> ?prop ?object . "
		case p.Obj != "":
			pattern = " ?subject ?prop <" + p.Obj + "> . "
		}
	}
	return selectPrefix + pattern + " } "
}

func strictPattern(p PropertyPattern) string {
	switch {
	case p.Subj != "" && p.Obj != "":
		return " <" + p.Subj + "> ?prop <" + p.Obj + "> . "
	case p.Subj != "":
		s := " <" + p.Subj + "> ?prop ?object . "
		if p.ObjType != "" {
			s += " { <" + p.Subj + "> ?prop " + p.ObjType + " } UNION { ?object a " + p.ObjType + " }  "
		}
		return s
	case p.Obj != "":
		s := " ?subject ?prop <" + p.Obj + "> . "
		if p.SubjType != "" {
			s += " ?subject a " + p.SubjType + " . "
		}
		return s
	case p.SubjType != "" && p.ObjType != "":
		return " ?subject ?prop ?object . ?subject a " + p.SubjType + " . ?object a " + p.ObjType + " . "
	}
	return ""
}
