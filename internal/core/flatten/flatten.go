// Package flatten turns a semantic graph into flat (subject, predicate, object) triples with
// composite predicate labels such as "own-01.arg0.arg1" or "city.location".
package flatten

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agenthands/rellink/internal/amr"
	"github.com/agenthands/rellink/internal/core/model"
)

const (
	UnknownRole    = "unknown"
	typeDateEntity = "date-entity"
)

var (
	opPattern       = regexp.MustCompile(`^op([0-9]+)`)
	argPattern      = regexp.MustCompile(`^ARG[0-9]+`)
	propbankPattern = regexp.MustCompile(`^([a-z0-9]+_)*(([a-z]+)-)+(\d\d)`)
)

var nonCoreRoles = toSet(
	"accompanier", "age", "beneficiary", "concession", "condition", "consist-of", "destination",
	"direction", "domain", "duration", "example", "extent", "frequency", "instrument", "location",
	"manner", "medium", "mod", "ord", "part", "path", "prep-with", "purpose", "quant", "source",
	"subevent", "time", "topic", "value",
)

var (
	conjunctions = toSet("or", "and")
	// roles never emitted as non-frame triples
	ignoredRoles = toSet("name", "instance", "entities", "entity", "surface_form", "type", "uri")
	// roles already folded into node metadata
	consumedRoles = toSet("instance", "name", "entities", "entity", "id", "type", "surface_form", "uri")
	dateParts     = toSet("year", "month", "day", "weekday")
)

// reifiedFrames maps a reification frame to the relation name used when it has no ARG2/ARG3.
var reifiedFrames = map[string]string{
	"have-rel-role-91": "relation",
	"have-org-role-91": "position",
}

var ErrNilGraph = errors.New("flatten: nil graph")

// Result is the flattener output for one sentence.
type Result struct {
	Triples []model.Triple
	// Names maps named-entity variables to their full name.
	Names map[string]string
	// Reified maps reification frame variables to the relation they encode.
	Reified    map[string]string
	Top        string
	UnknownVar string
}

// edge is a graph triple after type/name substitution. Source and Target are display texts,
// SourceID and TargetID the original variables or constants.
type edge struct {
	Source, SourceID string
	Role             string
	Target, TargetID string
}

// nodeInfo collects per-variable metadata gathered in the first pass over the graph.
type nodeInfo struct {
	types      map[string]string
	unknownVar string

	nameVars  map[string]bool
	nameOf    map[string]string // owner var -> name var
	nameOps   *orderedMap[map[int]string]
	names     map[string]string
	dateVars  map[string]bool
	dateComps *orderedMap[map[string]string]
	dates     map[string]string

	ordinalVars   map[string]bool
	ordinalValue  map[string]string
	temporalVars  map[string]bool
	temporalValue map[string]string

	andVars   map[string]bool
	andValues *orderedMap[[]string]

	mods        *orderedMap[[]string]
	modResolved map[string]bool
}

// Flatten converts g into flat triples. The sentence is used to rebuild compound types from
// modifier edges. Output order follows the graph's triple order, so identical input always
// yields an identical triple list.
//
// Frames emit one triple per unordered pair of their retained roles. Questions rarely produce
// frames with more than five roles, so the quadratic pair enumeration is not capped.
func Flatten(sentence string, g *amr.Graph) (*Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	info := collect(g)
	info.resolveMods(Tokens(sentence))
	info.buildNames()
	info.buildDates()

	edges := info.substitute(info.expandConjunctions(g.Triples))

	res := &Result{
		Names:      info.names,
		Reified:    make(map[string]string),
		Top:        g.Top,
		UnknownVar: info.unknownVar,
	}

	idToType := make(map[string]string)
	frames := newOrderedMap[map[string]string]()

	for _, e := range edges {
		idToType[e.SourceID] = e.Source
		idToType[e.TargetID] = e.Target

		var subjText, objText string
		if n, ok := info.names[e.SourceID]; ok {
			subjText = n
		} else if d, ok := info.dates[e.SourceID]; ok {
			subjText = d
			idToType[e.SourceID] = typeDateEntity
		}
		if n, ok := info.names[e.TargetID]; ok {
			objText = n
		} else if d, ok := info.dates[e.TargetID]; ok {
			objText = d
			idToType[e.TargetID] = typeDateEntity
		}

		if propbankPattern.MatchString(e.Source) {
			target := e.Target
			if m := propbankPattern.FindStringSubmatch(target); m != nil {
				target = m[2]
			}
			if conjunctions[e.Source] || conjunctions[target] {
				continue
			}
			args, _ := frames.Get(e.SourceID)
			if args == nil {
				args = make(map[string]string)
			}
			if argPattern.MatchString(e.Role) || nonCoreRoles[e.Role] {
				args[e.Role] = e.TargetID
			}
			frames.Set(e.SourceID, args)
			continue
		}

		if ignoredRoles[e.Role] || argPattern.MatchString(e.Role) {
			continue
		}

		subjType := e.Source
		if t, ok := info.types[e.SourceID]; ok {
			subjType = t
		}
		if fields := strings.Fields(subjType); len(fields) > 0 {
			subjType = fields[len(fields)-1]
		}

		res.Triples = append(res.Triples, model.Triple{
			SubjID:      e.SourceID,
			SubjText:    strings.TrimSpace(subjText),
			SubjType:    strings.TrimSpace(e.Source),
			Predicate:   strings.TrimSpace(subjType) + "." + strings.TrimSpace(e.Role),
			PredicateID: e.SourceID,
			ObjID:       e.TargetID,
			ObjText:     strings.TrimSpace(objText),
			ObjType:     strings.TrimSpace(e.Target),
			UnknownVar:  info.unknownVar,
		})
	}

	for _, frameID := range frames.Keys() {
		roles, _ := frames.Get(frameID)
		frameType := idToType[frameID]

		if fallback, ok := reifiedFrames[frameType]; ok {
			switch {
			case roles["ARG2"] != "":
				res.Reified[frameID] = idToType[roles["ARG2"]]
			case roles["ARG3"] != "":
				res.Reified[frameID] = idToType[roles["ARG3"]]
			default:
				res.Reified[frameID] = fallback
			}
			if roles["ARG0"] != "" && roles["ARG1"] != "" {
				delete(roles, "ARG2")
				delete(roles, "ARG3")
			}
		}

		if len(roles) == 1 {
			roles[UnknownRole] = UnknownRole
			idToType[UnknownRole] = UnknownRole
		}

		keys := make([]string, 0, len(roles))
		for k := range roles {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				subjID, objID := roles[keys[i]], roles[keys[j]]
				if subjID == objID {
					continue
				}
				res.Triples = append(res.Triples, model.Triple{
					SubjID:      subjID,
					SubjText:    info.variableText(subjID),
					SubjType:    strings.TrimSpace(idToType[subjID]),
					Predicate:   frameType + "." + strings.ToLower(keys[i]) + "." + strings.ToLower(keys[j]),
					PredicateID: frameID,
					ObjID:       objID,
					ObjText:     info.variableText(objID),
					ObjType:     strings.TrimSpace(idToType[objID]),
					UnknownVar:  info.unknownVar,
				})
			}
		}
	}

	return res, nil
}

func collect(g *amr.Graph) *nodeInfo {
	info := &nodeInfo{
		types:         make(map[string]string),
		nameVars:      make(map[string]bool),
		nameOf:        make(map[string]string),
		nameOps:       newOrderedMap[map[int]string](),
		names:         make(map[string]string),
		dateVars:      make(map[string]bool),
		dateComps:     newOrderedMap[map[string]string](),
		dates:         make(map[string]string),
		ordinalVars:   make(map[string]bool),
		ordinalValue:  make(map[string]string),
		temporalVars:  make(map[string]bool),
		temporalValue: make(map[string]string),
		andVars:       make(map[string]bool),
		andValues:     newOrderedMap[[]string](),
		mods:          newOrderedMap[[]string](),
		modResolved:   make(map[string]bool),
	}

	for _, t := range g.Triples {
		src, role, tgt := t.Source, t.Role, t.Target
		switch {
		case role == amr.RoleInstance:
			info.types[src] = tgt
			switch tgt {
			case amr.Unknown:
				info.unknownVar = src
			case "name":
				info.nameVars[src] = true
			case typeDateEntity:
				info.dateVars[src] = true
			case "ordinal-entity":
				info.ordinalVars[src] = true
			case "temporal-quantity":
				info.temporalVars[src] = true
			case "and":
				info.andVars[src] = true
			}
		case role == "name":
			info.nameOf[src] = tgt
		case role == "mod" && tgt != amr.Unknown:
			if tgt == "expressive" {
				continue
			}
			mods, _ := info.mods.Get(src)
			info.mods.Set(src, append(mods, tgt))
		case dateParts[role] && info.dateVars[src]:
			comps, _ := info.dateComps.Get(src)
			if comps == nil {
				comps = make(map[string]string)
			}
			comps[role] = amr.Unquote(tgt)
			info.dateComps.Set(src, comps)
		case role == "value" && info.ordinalVars[src]:
			info.ordinalValue[src] = tgt
		case role == "quant" && info.temporalVars[src]:
			info.temporalValue[src] = tgt
		case opPattern.MatchString(role):
			if info.nameVars[src] {
				pos, _ := strconv.Atoi(opPattern.FindStringSubmatch(role)[1])
				ops, _ := info.nameOps.Get(src)
				if ops == nil {
					ops = make(map[int]string)
				}
				ops[pos] = amr.Unquote(tgt)
				info.nameOps.Set(src, ops)
			} else if info.andVars[src] {
				vals, _ := info.andValues.Get(src)
				if !contains(vals, tgt) {
					vals = append(vals, tgt)
				}
				info.andValues.Set(src, vals)
			}
		}
	}
	return info
}

// resolveMods rebuilds multi-word types. For a head with k modifiers, the k+1 sentence tokens
// before the head word are scanned and every modifier found there is folded into the head's type.
func (n *nodeInfo) resolveMods(tokens []string) {
	for _, v := range n.mods.Keys() {
		head := n.types[v]
		headPos := indexOf(tokens, head)
		if headPos < 0 {
			continue
		}

		mods, _ := n.mods.Get(v)
		modVar := make(map[string]string, len(mods))
		modTypes := make(map[string]bool, len(mods))
		for _, m := range mods {
			modType := m
			if t, ok := n.types[m]; ok {
				modType = t
			}
			modTypes[modType] = true
			modVar[modType] = m
		}

		start := headPos - (len(mods) + 1)
		if start < 0 {
			start = 0
		}
		var compound []string
		for _, tok := range tokens[start:headPos] {
			if modTypes[tok] {
				n.modResolved[modVar[tok]] = true
				compound = append(compound, tok)
			}
		}
		n.types[v] = strings.Join(append(compound, head), " ")
	}
}

func (n *nodeInfo) buildNames() {
	nameToVar := make(map[string]string, len(n.nameOf))
	for owner, nameVar := range n.nameOf {
		nameToVar[nameVar] = owner
	}
	for _, nameVar := range n.nameOps.Keys() {
		owner, ok := nameToVar[nameVar]
		if !ok {
			continue
		}
		ops, _ := n.nameOps.Get(nameVar)
		var parts []string
		for i := 1; i < 15; i++ {
			if p, ok := ops[i]; ok {
				parts = append(parts, p)
			}
		}
		n.names[owner] = strings.Join(parts, " ")
	}
}

func (n *nodeInfo) buildDates() {
	for _, v := range n.dateComps.Keys() {
		comps, _ := n.dateComps.Get(v)
		var parts []string
		if d, ok := comps["day"]; ok {
			parts = append(parts, d)
		}
		if m, err := strconv.Atoi(comps["month"]); err == nil && m > 0 && m <= 12 {
			parts = append(parts, time.Month(m).String())
		}
		if y, ok := comps["year"]; ok {
			parts = append(parts, y)
		}
		n.dates[v] = strings.Join(parts, "/")
	}
}

// expandConjunctions replaces every edge pointing at a conjunction node with one edge per
// conjunct. Downstream consumers see the conjuncts independently.
func (n *nodeInfo) expandConjunctions(triples []amr.Triple) []amr.Triple {
	out := make([]amr.Triple, 0, len(triples))
	for _, t := range triples {
		vals, ok := n.andValues.Get(t.Target)
		if !ok {
			out = append(out, t)
			continue
		}
		for _, v := range vals {
			out = append(out, amr.Triple{Source: t.Source, Role: t.Role, Target: v})
		}
	}
	return out
}

// substitute drops edges already folded into node metadata and replaces variables by their
// type, date or value text. It also follows ":mod"/":domain" edges to the unknown node, which
// make the edge source the answer node instead.
func (n *nodeInfo) substitute(triples []amr.Triple) []edge {
	var out []edge
	for _, t := range triples {
		src, role, tgt := t.Source, t.Role, t.Target

		if tgt == "interrogative" {
			continue
		}
		if consumedRoles[role] || opPattern.MatchString(role) ||
			n.dateVars[src] || n.ordinalVars[src] || n.temporalVars[src] {
			continue
		}
		if role == "mod" || role == "domain" {
			if tgt == n.unknownVar {
				n.unknownVar = src
				continue
			}
			if role == "mod" && n.modResolved[tgt] {
				continue
			}
		}

		source := src
		if typ, ok := n.types[src]; ok {
			source = typ
		}

		// Lookups chain on the substituted text, so a typed ordinal or temporal node keeps its
		// type ("ordinal-entity") rather than its value.
		target := tgt
		if d, ok := n.dates[target]; ok {
			target = d
		}
		if typ, ok := n.types[target]; ok {
			target = typ
		}
		if v, ok := n.ordinalValue[target]; ok {
			target = v
		}
		if v, ok := n.temporalValue[target]; ok {
			target = v
		}
		if amr.IsQuoted(target) {
			target = amr.Unquote(target)
		}

		out = append(out, edge{Source: source, SourceID: src, Role: role, Target: target, TargetID: tgt})
	}
	return out
}

func (n *nodeInfo) variableText(id string) string {
	if name, ok := n.names[id]; ok {
		return strings.TrimSpace(name)
	}
	if d, ok := n.dates[id]; ok {
		return strings.TrimSpace(d)
	}
	return ""
}

func toSet(items ...string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}

func indexOf(items []string, s string) int {
	for i, it := range items {
		if it == s {
			return i
		}
	}
	return -1
}

func contains(items []string, s string) bool {
	return indexOf(items, s) >= 0
}
