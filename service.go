package ucum

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/govalues/ucum/decimal"
)

// Observer receives events from a [Service], typically to export metrics.
type Observer interface {
	ObserveParse(ok bool)
	ObserveCache(hit bool)
}

type nopObserver struct{}

func (nopObserver) ObserveParse(bool) {}
func (nopObserver) ObserveCache(bool) {}

// Service answers questions about unit expressions and measured values
// against one registry.
// It is safe for concurrent use by multiple goroutines.
type Service struct {
	reg   *Registry
	log   *zap.Logger
	cache *formCache
	obs   Observer
}

// Option configures a [Service].
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCache memoizes up to size canonical forms by expression text.
// A size of 0 disables the cache.
func WithCache(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cache = newFormCache(size)
		} else {
			s.cache = nil
		}
	}
}

// WithMetrics reports parse and cache events to o.
func WithMetrics(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.obs = o
		}
	}
}

// NewService returns a service over reg.
func NewService(reg *Registry, opts ...Option) *Service {
	s := &Service{reg: reg, log: zap.NewNop(), obs: nopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry of the service.
func (s *Service) Registry() *Registry {
	return s.reg
}

// Identification returns the version of the underlying dataset.
func (s *Service) Identification() Identification {
	return s.reg.Identification()
}

// Properties returns the properties measured by the units of the registry.
func (s *Service) Properties() []string {
	return s.reg.Properties()
}

// canonical parses and canonicalizes expr, consulting the cache first.
func (s *Service) canonical(expr string) (*CanonicalForm, error) {
	if s.cache != nil {
		if f, ok := s.cache.get(expr); ok {
			s.obs.ObserveCache(true)
			return f, nil
		}
		s.obs.ObserveCache(false)
	}
	f, err := s.reg.CanonicalizeString(expr)
	s.obs.ObserveParse(err == nil)
	if err != nil {
		s.log.Debug("unit rejected", zap.String("unit", expr), zap.Error(err))
		return nil, err
	}
	if s.cache != nil {
		s.cache.put(expr, f)
	}
	return f, nil
}

// ValidateUCUM checks the registry itself and returns a description of
// every problem found. An empty result means the registry is consistent.
//
// Every unit code must parse back to that unit without a prefix, every
// case-insensitive code must name a unit of the same dimension, and every
// prefix must be a power of ten or of two.
func (s *Service) ValidateUCUM() []string {
	var problems []string
	for _, u := range s.reg.Units() {
		t, err := s.reg.ParseCase(u.Code, false)
		if err != nil {
			problems = append(problems, fmt.Sprintf("unit %q: %v", u.Code, err))
			continue
		}
		syms := t.Symbols()
		if len(t.Items) != 1 || len(syms) != 1 || syms[0].Unit != u || syms[0].Prefix != nil {
			problems = append(problems, fmt.Sprintf("unit %q: code parses as %q", u.Code, describe(t)))
		}
		f, err := s.reg.UnitForm(u)
		if err != nil {
			problems = append(problems, fmt.Sprintf("unit %q: %v", u.Code, err))
			continue
		}
		ci, err := s.reg.LookupUnitCI(u.CICode)
		if err != nil {
			problems = append(problems, fmt.Sprintf("unit %q: case-insensitive code %q: %v", u.Code, u.CICode, err))
			continue
		}
		if g, err := s.reg.UnitForm(ci); err != nil || !Comparable(f, g) {
			problems = append(problems, fmt.Sprintf("unit %q: case-insensitive code %q names %q of another dimension", u.Code, u.CICode, ci.Code))
		}
	}
	for _, p := range s.reg.Prefixes() {
		if !isPowerOf(p.Value, 10) && !isPowerOf(p.Value, 2) {
			problems = append(problems, fmt.Sprintf("prefix %q: value %v is not a power of 10 or 2", p.Code, p.Value))
		}
	}
	if len(problems) > 0 {
		s.log.Warn("registry validation failed", zap.Int("problems", len(problems)))
	}
	return problems
}

func isPowerOf(d decimal.Decimal, base int64) bool {
	_, ok := intLog(base, d)
	return ok
}

// Validate returns nil if unit is a valid unit expression,
// otherwise an error describing the problem.
func (s *Service) Validate(unit string) error {
	_, err := s.canonical(unit)
	return err
}

// Analyse returns a formal description of unit in words,
// such as "millimeter / second ^ 2".
func (s *Service) Analyse(unit string) (string, error) {
	t, err := s.reg.Parse(unit)
	if err != nil {
		return "", err
	}
	return describe(t), nil
}

func describe(t *Term) string {
	var sb strings.Builder
	describeTerm(&sb, t)
	return sb.String()
}

func describeTerm(sb *strings.Builder, t *Term) {
	for i, it := range t.Items {
		switch {
		case it.Op == OpDiv && i == 0:
			sb.WriteString("/ ")
		case it.Op == OpDiv:
			sb.WriteString(" / ")
		case i > 0:
			sb.WriteString(" * ")
		}
		c := it.Comp
		switch x := c.Factor.(type) {
		case *Symbol:
			if x.Prefix != nil {
				sb.WriteString(x.Prefix.Name)
			}
			sb.WriteString(x.Unit.Name())
		case Number:
			sb.WriteString(x.Text)
		case *Term:
			sb.WriteByte('(')
			describeTerm(sb, x)
			sb.WriteByte(')')
		case Unity:
			sb.WriteByte('1')
		}
		if c.HasExp {
			fmt.Fprintf(sb, " ^ %d", c.Exp)
		}
	}
}

// ValidateInProperty returns nil if unit measures the property,
// that is, if it is comparable with a unit of that property.
func (s *Service) ValidateInProperty(unit, property string) error {
	f, err := s.canonical(unit)
	if err != nil {
		return err
	}
	us := s.reg.UnitsWithProperty(property)
	if len(us) == 0 {
		return errors.Errorf("unknown property %q", property)
	}
	for _, u := range us {
		if g, err := s.reg.UnitForm(u); err == nil && Comparable(f, g) {
			return nil
		}
	}
	return errors.Errorf("unit %q is not of the property type %q", unit, property)
}

// ValidateCanonicalUnits returns nil if the canonical units of unit are
// exactly canonical.
func (s *Service) ValidateCanonicalUnits(unit, canonical string) error {
	cu, err := s.GetCanonicalUnits(unit)
	if err != nil {
		return err
	}
	if cu != canonical {
		return errors.Errorf("unit %q has the canonical units %q, not %q", unit, cu, canonical)
	}
	return nil
}

// GetCanonicalUnits returns the canonical unit text of unit, such as
// "g.m.s-2" for "N".
func (s *Service) GetCanonicalUnits(unit string) (string, error) {
	f, err := s.canonical(unit)
	if err != nil {
		return "", err
	}
	return f.Units(), nil
}

// GetCanonicalForm expresses a measured value in canonical units.
func (s *Service) GetCanonicalForm(p Pair) (Pair, error) {
	f, err := s.canonical(p.Code)
	if err != nil {
		return Pair{}, err
	}
	v, err := f.ToBase(p.Value)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Value: v, Code: f.Units()}, nil
}

// IsComparable reports whether values of u1 can be converted to u2.
func (s *Service) IsComparable(u1, u2 string) (bool, error) {
	f1, err := s.canonical(u1)
	if err != nil {
		return false, err
	}
	f2, err := s.canonical(u2)
	if err != nil {
		return false, err
	}
	return Comparable(f1, f2), nil
}

// GetDefinedForms returns the linear units of the registry that have the
// same canonical units as code, excluding base units.
func (s *Service) GetDefinedForms(code string) ([]*Unit, error) {
	f, err := s.canonical(code)
	if err != nil {
		return nil, err
	}
	var us []*Unit
	for _, u := range s.reg.Units() {
		if u.Kind == KindBase || u.Kind == KindSpecial {
			continue
		}
		if g, err := s.reg.UnitForm(u); err == nil && g.Special == nil && Comparable(f, g) {
			us = append(us, u)
		}
	}
	return us, nil
}

// Convert converts value from the src unit to the dst unit.
func (s *Service) Convert(value decimal.Decimal, src, dst string) (decimal.Decimal, error) {
	fs, err := s.canonical(src)
	if err != nil {
		return decimal.Decimal{}, err
	}
	fd, err := s.canonical(dst)
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := Convert(value, fs, fd)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "converting %v from %q to %q", value, src, dst)
	}
	s.log.Debug("converted",
		zap.Stringer("value", value),
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Stringer("result", v),
	)
	return v, nil
}

// Multiply returns a * b in canonical units.
func (s *Service) Multiply(a, b Pair) (Pair, error) {
	return s.reg.Multiply(a, b)
}

// DivideBy returns a / b in canonical units.
func (s *Service) DivideBy(a, b Pair) (Pair, error) {
	return s.reg.DivideBy(a, b)
}
