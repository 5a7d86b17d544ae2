package amr

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmpty          = errors.New("amr: no graph found")
	ErrMultipleGraphs = errors.New("amr: text parses into more than one graph")
)

// Roles ending in -of that are not inversions.
var nonInvertedRoles = map[string]bool{
	"consist-of":        true,
	"prep-out-of":       true,
	"prep-on-behalf-of": true,
}

// Parse decodes every graph found in text. Comment lines (starting with '#') are ignored and
// stray tokens between graphs are skipped.
func Parse(text string) ([]*Graph, error) {
	p := &parser{src: []rune(stripComments(text))}
	var graphs []*Graph
	for {
		p.skipToOpen()
		if p.eof() {
			break
		}
		g := &Graph{}
		top, err := p.node(g)
		if err != nil {
			return graphs, err
		}
		g.Top = top
		graphs = append(graphs, g)
	}
	if len(graphs) == 0 {
		return nil, ErrEmpty
	}
	return graphs, nil
}

// ParseOne decodes text that must contain exactly one graph.
func ParseOne(text string) (*Graph, error) {
	graphs, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if len(graphs) > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrMultipleGraphs, len(graphs))
	}
	return graphs[0], nil
}

// Load parses an extended graph. When the text does not parse into a single graph, the usual
// mis-formatting (a closing bracket ending the line right before an ":entities" line) is repaired
// once and the text parsed again; the first graph of the repaired text is returned.
func Load(text string) (*Graph, bool, error) {
	g, err := ParseOne(text)
	if err == nil {
		return g, false, nil
	}

	repaired := Repair(text)
	graphs, rerr := Parse(repaired)
	if rerr != nil {
		return nil, true, fmt.Errorf("amr: parse after repair: %w (before repair: %v)", rerr, err)
	}
	return graphs[0], true, nil
}

// Repair strips one trailing ')' from every line that directly precedes an ":entities" line and
// joins the lines with spaces.
func Repair(text string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if !strings.Contains(lines[i], ":entities") {
			continue
		}
		prev := strings.TrimRightFunc(lines[i-1], unicode.IsSpace)
		if strings.HasSuffix(prev, ")") {
			lines[i-1] = prev[:len(prev)-1]
		}
	}
	return strings.Join(lines, " ")
}

func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

func (p *parser) skipToOpen() {
	for !p.eof() && p.peek() != '(' {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("amr: at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

// node parses "(var / concept :role value ...)" and returns the variable.
func (p *parser) node(g *Graph) (string, error) {
	p.skipSpace()
	if p.eof() || p.peek() != '(' {
		return "", p.errorf("expected '('")
	}
	p.pos++

	p.skipSpace()
	variable := p.symbol()
	if variable == "" {
		return "", p.errorf("expected variable")
	}

	p.skipSpace()
	if !p.eof() && p.peek() == '/' {
		p.pos++
		p.skipSpace()
		concept := p.symbol()
		if concept == "" {
			return "", p.errorf("expected concept for %s", variable)
		}
		g.Triples = append(g.Triples, Triple{Source: variable, Role: RoleInstance, Target: concept})
	}

	for {
		p.skipSpace()
		if p.eof() {
			return "", p.errorf("unterminated node %s", variable)
		}
		switch p.peek() {
		case ')':
			p.pos++
			return variable, nil
		case ':':
			p.pos++
			role := p.symbol()
			if role == "" {
				return "", p.errorf("empty role in node %s", variable)
			}
			if err := p.edge(g, variable, role); err != nil {
				return "", err
			}
		default:
			return "", p.errorf("unexpected %q in node %s", p.peek(), variable)
		}
	}
}

func (p *parser) edge(g *Graph, source, role string) error {
	p.skipSpace()
	if p.eof() {
		return p.errorf("missing value for :%s", role)
	}

	idx := len(g.Triples)
	g.Triples = append(g.Triples, Triple{})

	var target string
	switch p.peek() {
	case '(':
		v, err := p.node(g)
		if err != nil {
			return err
		}
		target = v
	case '"':
		s, err := p.quoted()
		if err != nil {
			return err
		}
		target = s
	default:
		target = p.symbol()
		if target == "" {
			return p.errorf("missing value for :%s", role)
		}
	}

	if strings.HasSuffix(role, "-of") && !nonInvertedRoles[role] {
		g.Triples[idx] = Triple{Source: target, Role: strings.TrimSuffix(role, "-of"), Target: source}
	} else {
		g.Triples[idx] = Triple{Source: source, Role: role, Target: target}
	}
	return nil
}

func (p *parser) symbol() string {
	start := p.pos
	for !p.eof() {
		r := p.peek()
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
			break
		}
		p.pos++
	}
	sym := string(p.src[start:p.pos])
	// alignment markers such as "~e.3" are not part of the symbol
	if i := strings.Index(sym, "~"); i > 0 {
		sym = sym[:i]
	}
	return sym
}

func (p *parser) quoted() (string, error) {
	start := p.pos
	p.pos++
	for !p.eof() {
		switch p.peek() {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			return string(p.src[start:p.pos]), nil
		}
		p.pos++
	}
	return "", p.errorf("unterminated string")
}
