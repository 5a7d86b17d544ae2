// Package amr holds the semantic graph input: a PENMAN parser producing (source, role, target)
// triples, plus the one-shot repair applied to mis-formatted extended graphs.
package amr

import "strings"

const (
	RoleInstance = "instance"
	Unknown      = "amr-unknown"
)

// Triple is one edge of the semantic graph. Instance edges carry the node's concept as Target.
// Quoted constants keep their quotes, as in the PENMAN source.
type Triple struct {
	Source string
	Role   string
	Target string
}

// Graph is a rooted semantic graph. It is not modified after parsing.
type Graph struct {
	Top     string
	Triples []Triple
}

// Instances maps every variable to its concept.
func (g *Graph) Instances() map[string]string {
	out := make(map[string]string)
	for _, t := range g.Triples {
		if t.Role == RoleInstance {
			out[t.Source] = t.Target
		}
	}
	return out
}

// Unquote strips the surrounding double quotes of a constant and any quotes inside it.
func Unquote(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// IsQuoted reports whether a target is a string constant rather than a variable or symbol.
func IsQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}
