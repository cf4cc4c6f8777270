package ucum

import (
	"github.com/pkg/errors"

	"github.com/govalues/ucum/decimal"
)

// Scale is an exact ratio Num/Den of two decimals.
// Keeping the ratio unevaluated defers the only inexact division to the
// end of a conversion.
type Scale struct {
	Num, Den decimal.Decimal
}

// UnitScale is the ratio 1/1.
var UnitScale = Scale{Num: decimal.One, Den: decimal.One}

// NewScale returns the ratio d/1.
func NewScale(d decimal.Decimal) Scale {
	return Scale{Num: d, Den: decimal.One}
}

// Mul returns s * t.
func (s Scale) Mul(t Scale) Scale {
	return Scale{Num: s.Num.Mul(t.Num), Den: s.Den.Mul(t.Den)}
}

// Quo returns s / t.
func (s Scale) Quo(t Scale) Scale {
	return Scale{Num: s.Num.Mul(t.Den), Den: s.Den.Mul(t.Num)}
}

// Inv returns 1 / s.
func (s Scale) Inv() Scale {
	return Scale{Num: s.Den, Den: s.Num}
}

// Pow returns s raised to the integer power n.
func (s Scale) Pow(n int) (Scale, error) {
	if n < 0 {
		s, n = s.Inv(), -n
	}
	num, err := s.Num.Pow(n)
	if err != nil {
		return Scale{}, err
	}
	den, err := s.Den.Pow(n)
	if err != nil {
		return Scale{}, err
	}
	return Scale{Num: num, Den: den}, nil
}

// Value evaluates the ratio.
func (s Scale) Value() (decimal.Decimal, error) {
	return s.Num.Quo(s.Den)
}

// Apply returns v * Num / Den with a single rounding.
func (s Scale) Apply(v decimal.Decimal) (decimal.Decimal, error) {
	return v.MulQuo(s.Num, s.Den)
}

// Unapply returns v * Den / Num with a single rounding.
func (s Scale) Unapply(v decimal.Decimal) (decimal.Decimal, error) {
	return v.MulQuo(s.Den, s.Num)
}

func (s Scale) String() string {
	if s.Den.IsOne() {
		return s.Num.String()
	}
	return s.Num.String() + "/" + s.Den.String()
}

// CanonicalForm is a unit reduced to base units: a dimension and a scale,
// and for special units the transform that relates the special value to
// the amount of its definition unit.
//
// A value v of a linear unit is v * Scale base units.
// A value v of a special unit is Transform.ToBase(v * Pre) * Scale
// base units.
//
// Canonical forms are shared and must not be modified.
type CanonicalForm struct {
	Dim     Dimension
	Scale   Scale
	Special *SpecialPart
}

// SpecialPart is the non-linear part of a canonical form.
type SpecialPart struct {
	Unit      *Unit
	Transform Transform
	Pre       Scale // prefix factor applied to the special value
}

var unity = &CanonicalForm{Scale: UnitScale}

// IsSpecial reports whether converting the form needs a transform.
func (f *CanonicalForm) IsSpecial() bool {
	return f.Special != nil
}

// Units returns the canonical unit text, such as "g.m.s-2".
func (f *CanonicalForm) Units() string {
	return f.Dim.String()
}

func (f *CanonicalForm) mul(g *CanonicalForm) (*CanonicalForm, error) {
	if f.Special != nil && g.Special != nil {
		return nil, errors.Wrapf(ErrIncompatibleSpecialUnit, "%v and %v in one product", f.Special.Unit, g.Special.Unit)
	}
	sp := f.Special
	if sp == nil {
		sp = g.Special
	}
	dim := f.Dim.Add(g.Dim)
	if !dim.inRange() {
		return nil, errors.Wrapf(ErrUncomputableUnit, "exponent of %v out of range", dim)
	}
	return &CanonicalForm{Dim: dim, Scale: f.Scale.Mul(g.Scale), Special: sp}, nil
}

func (f *CanonicalForm) pow(n int) (*CanonicalForm, error) {
	if n == 1 {
		return f, nil
	}
	if f.Special != nil {
		return nil, errors.Wrapf(ErrIncompatibleSpecialUnit, "%v raised to %v", f.Special.Unit, n)
	}
	if n > MaxExponent || n < -MaxExponent {
		return nil, errors.Wrapf(ErrUncomputableUnit, "exponent %v out of range", n)
	}
	dim := f.Dim.Scale(n)
	if !dim.inRange() {
		return nil, errors.Wrapf(ErrUncomputableUnit, "exponent of %v out of range", dim)
	}
	scale, err := f.Scale.Pow(n)
	if err != nil {
		return nil, errors.Wrapf(ErrUncomputableUnit, "%v", err)
	}
	return &CanonicalForm{Dim: dim, Scale: scale}, nil
}

// unitForm computes the canonical form of a unit from the forms of the
// units in its definition.
func (r *Registry) unitForm(u *Unit) (*CanonicalForm, error) {
	switch u.Kind {
	case KindBase:
		return &CanonicalForm{Dim: NewDimension(u.Code), Scale: UnitScale}, nil
	case KindArbitrary:
		if t := r.defs[u.index]; isUnity(t) {
			return &CanonicalForm{Dim: NewDimension(u.Code), Scale: NewScale(u.Value)}, nil
		}
	}
	f, err := r.canonTerm(r.defs[u.index])
	if err != nil {
		return nil, err
	}
	g := &CanonicalForm{Dim: f.Dim, Scale: NewScale(u.Value).Mul(f.Scale), Special: f.Special}
	if u.Kind == KindSpecial {
		if f.Special != nil {
			return nil, errors.Wrapf(ErrIncompatibleSpecialUnit, "special unit defined over %v", f.Special.Unit)
		}
		g.Special = &SpecialPart{Unit: u, Transform: transforms[u.Transform], Pre: UnitScale}
	}
	return g, nil
}

func isUnity(t *Term) bool {
	if t == nil || len(t.Items) != 1 || t.Items[0].Op != OpMul {
		return false
	}
	c := t.Items[0].Comp
	if n, ok := c.Factor.(Number); ok {
		return n.Value.IsOne() && (!c.HasExp || c.Exp == 1)
	}
	_, ok := c.Factor.(Unity)
	return ok
}

// Canonicalize reduces a parsed term to its canonical form.
func (r *Registry) Canonicalize(t *Term) (*CanonicalForm, error) {
	return r.canonTerm(t)
}

// CanonicalizeString parses and canonicalizes expr.
func (r *Registry) CanonicalizeString(expr string) (*CanonicalForm, error) {
	t, err := r.Parse(expr)
	if err != nil {
		return nil, err
	}
	return r.canonTerm(t)
}

func (r *Registry) canonTerm(t *Term) (*CanonicalForm, error) {
	acc := unity
	for _, it := range t.Items {
		f, err := r.canonComponent(it.Comp)
		if err != nil {
			return nil, err
		}
		if it.Op == OpDiv {
			if f, err = f.pow(-1); err != nil {
				return nil, err
			}
		}
		if acc, err = acc.mul(f); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (r *Registry) canonComponent(c *Component) (*CanonicalForm, error) {
	f, err := r.canonFactor(c.Factor)
	if err != nil {
		return nil, err
	}
	if c.HasExp {
		return f.pow(c.Exp)
	}
	return f, nil
}

func (r *Registry) canonFactor(x Factor) (*CanonicalForm, error) {
	switch x := x.(type) {
	case *Symbol:
		return r.canonSymbol(x)
	case Number:
		return &CanonicalForm{Scale: NewScale(x.Value)}, nil
	case *Term:
		return r.canonTerm(x)
	case Unity:
		return unity, nil
	}
	return nil, errors.Wrapf(ErrUncomputableUnit, "unexpected factor %T", x)
}

func (r *Registry) canonSymbol(s *Symbol) (*CanonicalForm, error) {
	u := s.Unit
	if u == nil || u.index >= len(r.forms) || &r.units[u.index] != u {
		return nil, errors.Wrapf(ErrUncomputableUnit, "%q is not a unit of this registry", s.Text)
	}
	f := r.forms[u.index]
	if f == nil {
		return nil, errors.Wrapf(ErrUncomputableUnit, "%q", u.Code)
	}
	if s.Prefix == nil {
		return f, nil
	}
	if !u.Metric {
		return nil, errors.Wrapf(ErrPrefixNotApplicable, "%v%v", s.Prefix.Code, u.Code)
	}
	pre := NewScale(s.Prefix.Value)
	if f.Special != nil {
		sp := *f.Special
		sp.Pre = sp.Pre.Mul(pre)
		return &CanonicalForm{Dim: f.Dim, Scale: f.Scale, Special: &sp}, nil
	}
	return &CanonicalForm{Dim: f.Dim, Scale: f.Scale.Mul(pre)}, nil
}

// UnitForm returns the canonical form of a unit of the registry.
func (r *Registry) UnitForm(u *Unit) (*CanonicalForm, error) {
	return r.canonSymbol(&Symbol{Unit: u, Text: u.Code})
}
