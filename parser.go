package ucum

import (
	"strconv"
	"strings"

	"github.com/govalues/ucum/decimal"
)

// Op combines a component with the components before it.
type Op int

const (
	OpMul Op = iota // '.'
	OpDiv           // '/'
)

// Term is a parsed unit expression: components combined left to right.
// The op of the first item is OpDiv for expressions with a leading '/'.
type Term struct {
	Items []TermItem
}

// TermItem is one operator and its right-hand component.
type TermItem struct {
	Op   Op
	Comp *Component
}

// Component is a factor with an optional exponent and annotation.
type Component struct {
	Factor     Factor
	Exp        int
	HasExp     bool
	Annotation string
}

// Factor is one of [*Symbol], [Number], [*Term] (parenthesised) or [Unity].
type Factor interface {
	factor()
	writeTo(sb *strings.Builder)
}

// Symbol is a unit atom with an optional prefix.
type Symbol struct {
	Prefix *Prefix // nil when unprefixed
	Unit   *Unit
	Text   string // the symbol as written
	Pos    int
}

// Number is a pure numeric factor such as "10".
type Number struct {
	Value decimal.Decimal
	Text  string
}

// Unity is the factor 1 of an empty expression or a bare annotation.
type Unity struct{}

func (*Symbol) factor() {}
func (Number) factor()  {}
func (*Term) factor()   {}
func (Unity) factor()   {}

func (s *Symbol) writeTo(sb *strings.Builder) {
	sb.WriteString(s.Text)
}

func (n Number) writeTo(sb *strings.Builder) {
	sb.WriteString(n.Text)
}

func (t *Term) writeTo(sb *strings.Builder) {
	sb.WriteByte('(')
	t.write(sb)
	sb.WriteByte(')')
}

func (Unity) writeTo(*strings.Builder) {}

// String re-composes the expression in UCUM syntax.
func (t *Term) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Term) write(sb *strings.Builder) {
	for i, it := range t.Items {
		switch {
		case it.Op == OpDiv:
			sb.WriteByte('/')
		case i > 0:
			sb.WriteByte('.')
		}
		it.Comp.write(sb)
	}
}

func (c *Component) write(sb *strings.Builder) {
	if _, ok := c.Factor.(Unity); ok && c.Annotation == "" {
		sb.WriteByte('1')
		return
	}
	c.Factor.writeTo(sb)
	if c.HasExp {
		sb.WriteString(strconv.Itoa(c.Exp))
	}
	if c.Annotation != "" {
		sb.WriteByte('{')
		sb.WriteString(c.Annotation)
		sb.WriteByte('}')
	}
}

// Symbols returns every unit atom of t in order, including those of
// parenthesised sub-terms.
func (t *Term) Symbols() []*Symbol {
	var syms []*Symbol
	t.walk(func(s *Symbol) { syms = append(syms, s) })
	return syms
}

func (t *Term) walk(f func(*Symbol)) {
	for _, it := range t.Items {
		switch x := it.Comp.Factor.(type) {
		case *Symbol:
			f(x)
		case *Term:
			x.walk(f)
		}
	}
}

// Parse parses expr into a term.
// Symbols are matched against case-sensitive codes first; if that fails
// the whole expression is parsed again against case-insensitive codes.
// When both fail, the case-sensitive error is returned.
// A parse that puts a prefix on a non-metric unit is kept only when the
// other pass does not produce a clean term, and fails to canonicalize.
// An empty expression is the unity.
func (r *Registry) Parse(expr string) (*Term, error) {
	t, err := r.parse(expr, false)
	if err == nil && !t.misprefixed() {
		return t, nil
	}
	if t2, err2 := r.parse(expr, true); err2 == nil && (err != nil || !t2.misprefixed()) {
		return t2, nil
	}
	if err == nil {
		return t, nil
	}
	return nil, err
}

// misprefixed reports whether t has a prefix on a non-metric unit.
func (t *Term) misprefixed() bool {
	found := false
	t.walk(func(s *Symbol) {
		if s.Prefix != nil && s.Unit != nil && !s.Unit.Metric {
			found = true
		}
	})
	return found
}

// ParseCase parses expr against case-sensitive (ci false) or
// case-insensitive codes only.
func (r *Registry) ParseCase(expr string, ci bool) (*Term, error) {
	return r.parse(expr, ci)
}

func (r *Registry) parse(expr string, ci bool) (*Term, error) {
	if expr == "" {
		return &Term{Items: []TermItem{{Op: OpMul, Comp: &Component{Factor: Unity{}}}}}, nil
	}
	p := &parser{reg: r, ci: ci, lex: lexer{src: expr}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	switch p.tok.kind {
	case tokEnd:
		return t, nil
	case tokClose:
		return nil, p.errorf(p.tok.pos, nil, "unbalanced ')'")
	}
	return nil, p.errorf(p.tok.pos, nil, "expected '.' or '/' before %v", p.tok.kind)
}

// parser is a recursive descent parser over the lexer tokens
// with one token of lookahead.
type parser struct {
	reg *Registry
	ci  bool
	lex lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(pos int, cause error, format string, args ...any) error {
	return syntaxErrorf(p.lex.src, pos, cause, format, args...)
}

func (p *parser) term() (*Term, error) {
	t := &Term{}
	op := OpMul
	if p.tok.kind == tokSolidus {
		op = OpDiv
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	for {
		c, err := p.component()
		if err != nil {
			return nil, err
		}
		t.Items = append(t.Items, TermItem{Op: op, Comp: c})
		switch p.tok.kind {
		case tokPeriod:
			op = OpMul
		case tokSolidus:
			op = OpDiv
		default:
			return t, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

func (p *parser) component() (*Component, error) {
	c := &Component{}
	tok := p.tok
	switch tok.kind {
	case tokAnnotation:
		c.Factor = Unity{}
		c.Annotation = tok.text
		return c, p.advance()
	case tokOpen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.term()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokClose {
			return nil, p.errorf(tok.pos, nil, "missing ')' for '('")
		}
		c.Factor = inner
	case tokSymbol:
		sym, err := p.symbol(tok)
		if err != nil {
			return nil, err
		}
		c.Factor = sym
	case tokNumber:
		if tok.text[0] == '+' || tok.text[0] == '-' {
			return nil, p.errorf(tok.pos, nil, "expected unit, found exponent %q", tok.text)
		}
		d, err := decimal.Parse(tok.text)
		if err != nil {
			return nil, p.errorf(tok.pos, err, "malformed number %q", tok.text)
		}
		c.Factor = Number{Value: d, Text: tok.text}
	case tokEnd:
		return nil, p.errorf(tok.pos, nil, "expected unit at end of expression")
	default:
		return nil, p.errorf(tok.pos, nil, "expected unit, found %v", tok.kind)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokNumber {
		n, err := strconv.Atoi(p.tok.text)
		if err != nil || n > MaxExponent || n < -MaxExponent {
			return nil, p.errorf(p.tok.pos, nil, "exponent %q out of range", p.tok.text)
		}
		c.Exp, c.HasExp = n, true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.kind == tokAnnotation {
		c.Annotation = p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (p *parser) symbol(tok token) (*Symbol, error) {
	u, pfx := p.reg.resolveSymbol(tok.text, p.ci)
	if u == nil {
		return nil, p.errorf(tok.pos, ErrUnknownUnit, "unknown unit %q", tok.text)
	}
	return &Symbol{Prefix: pfx, Unit: u, Text: tok.text, Pos: tok.pos}, nil
}
