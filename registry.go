package ucum

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/govalues/ucum/decimal"
)

// Registry is an immutable catalog of prefixes and units.
// It is safe for concurrent use by multiple goroutines.
type Registry struct {
	ident    Identification
	prefixes []Prefix
	units    []Unit // arena, Unit.index is the position

	unitCS   map[string]int
	unitCI   map[string]int
	prefixCS map[string]int

	// prefix indices ordered by code length, longest first
	prefixOrderCS []int
	prefixOrderCI []int

	defs  []*Term          // parsed definitions, nil for base units
	forms []*CanonicalForm // canonical form of every unit
}

// NewRegistry builds a registry from prefix and unit definitions.
// It checks that codes are unique, that every definition parses and
// names a known special function, and that definitions are acyclic.
// All problems are reported together in an [*IntegrityError].
func NewRegistry(ident Identification, prefixes []PrefixDef, units []UnitDef) (*Registry, error) {
	r := &Registry{
		ident:    ident,
		prefixes: make([]Prefix, 0, len(prefixes)),
		units:    make([]Unit, 0, len(units)),
		unitCS:   make(map[string]int, len(units)),
		unitCI:   make(map[string]int, len(units)),
		prefixCS: make(map[string]int, len(prefixes)),
	}
	var issues *multierror.Error
	for _, pd := range prefixes {
		if err := r.addPrefix(pd); err != nil {
			issues = multierror.Append(issues, err)
		}
	}
	for i := range units {
		if err := r.addUnit(&units[i]); err != nil {
			issues = multierror.Append(issues, err)
		}
	}
	r.prefixOrderCS = prefixOrder(r.prefixes, func(p *Prefix) string { return p.Code })
	r.prefixOrderCI = prefixOrder(r.prefixes, func(p *Prefix) string { return p.CICode })

	r.defs = make([]*Term, len(r.units))
	for i := range r.units {
		u := &r.units[i]
		if u.Kind == KindBase {
			continue
		}
		if u.Kind == KindSpecial {
			if _, ok := transforms[u.Transform]; !ok {
				issues = multierror.Append(issues, errors.Errorf("unit %q: unknown special function %q", u.Code, u.Transform))
			}
		}
		t, err := r.Parse(u.Expr)
		if err != nil {
			issues = multierror.Append(issues, errors.Wrapf(err, "unit %q: definition %q", u.Code, u.Expr))
			continue
		}
		r.defs[i] = t
	}
	if issues != nil {
		return nil, &IntegrityError{Issues: issues}
	}
	if err := r.resolve(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) addPrefix(pd PrefixDef) error {
	if pd.Code == "" {
		return errors.Errorf("prefix %q: empty code", pd.Name)
	}
	if _, ok := r.prefixCS[pd.Code]; ok {
		return errors.Errorf("prefix %q: duplicate code", pd.Code)
	}
	v, err := decimal.Parse(pd.Value)
	if err != nil {
		return errors.Wrapf(err, "prefix %q: value", pd.Code)
	}
	if !v.IsPos() {
		return errors.Errorf("prefix %q: value %v is not positive", pd.Code, v)
	}
	ci := pd.CICode
	if ci == "" {
		ci = strings.ToUpper(pd.Code)
	}
	i := len(r.prefixes)
	r.prefixes = append(r.prefixes, Prefix{Code: pd.Code, CICode: ci, Name: pd.Name, Value: v.Exact()})
	r.prefixCS[pd.Code] = i
	return nil
}

func (r *Registry) addUnit(ud *UnitDef) error {
	if ud.Code == "" {
		return errors.Errorf("unit %q: empty code", strings.Join(ud.Names, ", "))
	}
	if _, ok := r.unitCS[ud.Code]; ok {
		return errors.Errorf("unit %q: duplicate code", ud.Code)
	}
	u := Unit{
		Kind:        ud.kind(),
		Code:        ud.Code,
		CICode:      ud.CICode,
		Names:       ud.Names,
		PrintSymbol: ud.PrintSymbol,
		Property:    ud.Property,
		Class:       ud.Class,
		Metric:      ud.Metric,
		Dim:         ud.Dim,
		Expr:        ud.Unit,
		Transform:   ud.Special,
		index:       len(r.units),
	}
	if u.CICode == "" {
		u.CICode = strings.ToUpper(u.Code)
	}
	switch u.Kind {
	case KindBase:
		u.Metric = true
		u.Value = decimal.One
	default:
		if ud.Value == "" {
			u.Value = decimal.One
			break
		}
		v, err := decimal.Parse(ud.Value)
		if err != nil {
			return errors.Wrapf(err, "unit %q: value", ud.Code)
		}
		if !v.IsPos() {
			return errors.Errorf("unit %q: value %v is not positive", ud.Code, v)
		}
		u.Value = v.Exact()
	}
	r.units = append(r.units, u)
	r.unitCS[u.Code] = u.index
	if _, ok := r.unitCI[u.CICode]; !ok {
		r.unitCI[u.CICode] = u.index
	}
	return nil
}

func prefixOrder(ps []Prefix, code func(*Prefix) string) []int {
	order := make([]int, len(ps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(code(&ps[order[i]])) > len(code(&ps[order[j]]))
	})
	return order
}

// resolve computes the canonical form of every unit in dependency order,
// reporting every definition cycle.
func (r *Registry) resolve() error {
	const (
		white = iota
		grey
		black
	)
	var issues *multierror.Error
	colour := make([]int, len(r.units))
	r.forms = make([]*CanonicalForm, len(r.units))
	var visit func(i int, path []int) bool
	visit = func(i int, path []int) bool {
		switch colour[i] {
		case black:
			return r.forms[i] != nil
		case grey:
			codes := make([]string, 0, len(path)+1)
			for k := len(path) - 1; k >= 0; k-- {
				codes = append(codes, r.units[path[k]].Code)
				if path[k] == i {
					break
				}
			}
			for l, m := 0, len(codes)-1; l < m; l, m = l+1, m-1 {
				codes[l], codes[m] = codes[m], codes[l]
			}
			codes = append(codes, r.units[i].Code)
			issues = multierror.Append(issues, errors.Errorf("unit %q: cyclic definition %v", r.units[i].Code, strings.Join(codes, " -> ")))
			return false
		}
		colour[i] = grey
		ok := true
		if t := r.defs[i]; t != nil {
			path = append(path, i)
			for _, s := range t.Symbols() {
				if !visit(s.Unit.index, path) {
					ok = false
				}
			}
		}
		colour[i] = black
		if !ok {
			return false
		}
		f, err := r.unitForm(&r.units[i])
		if err != nil {
			issues = multierror.Append(issues, errors.Wrapf(err, "unit %q", r.units[i].Code))
			return false
		}
		r.forms[i] = f
		return true
	}
	for i := range r.units {
		visit(i, nil)
	}
	if issues != nil {
		return &IntegrityError{Issues: issues}
	}
	return nil
}

// Identification returns the version of the dataset.
func (r *Registry) Identification() Identification {
	return r.ident
}

// Units returns every unit in declaration order.
func (r *Registry) Units() []*Unit {
	us := make([]*Unit, len(r.units))
	for i := range r.units {
		us[i] = &r.units[i]
	}
	return us
}

// Prefixes returns every prefix in declaration order.
func (r *Registry) Prefixes() []*Prefix {
	ps := make([]*Prefix, len(r.prefixes))
	for i := range r.prefixes {
		ps[i] = &r.prefixes[i]
	}
	return ps
}

// LookupUnit returns the unit with the case-sensitive code.
func (r *Registry) LookupUnit(code string) (*Unit, error) {
	if u := r.unit(code, false); u != nil {
		return u, nil
	}
	return nil, errors.Wrapf(ErrUnknownUnit, "%q", code)
}

// LookupPrefix returns the prefix with the case-sensitive code.
func (r *Registry) LookupPrefix(code string) (*Prefix, error) {
	if i, ok := r.prefixCS[code]; ok {
		return &r.prefixes[i], nil
	}
	return nil, errors.Wrapf(ErrUnknownPrefix, "%q", code)
}

// LookupUnitCI returns the unit with the case-insensitive code.
// When several units share a case-insensitive code the first declared wins.
func (r *Registry) LookupUnitCI(code string) (*Unit, error) {
	if u := r.unit(strings.ToUpper(code), true); u != nil {
		return u, nil
	}
	return nil, errors.Wrapf(ErrUnknownUnit, "%q", code)
}

func (r *Registry) unit(code string, ci bool) *Unit {
	m := r.unitCS
	if ci {
		m = r.unitCI
	}
	if i, ok := m[code]; ok {
		return &r.units[i]
	}
	return nil
}

// resolveSymbol splits a symbol into an optional prefix and a unit.
// Prefixes are tried longest first and the first prefix followed by a
// metric unit wins; otherwise the symbol must be a unit code itself.
// As a last resort a prefix followed by a non-metric unit is returned so
// that the misplaced prefix is reported as such.
func (r *Registry) resolveSymbol(sym string, ci bool) (*Unit, *Prefix) {
	if ci {
		sym = strings.ToUpper(sym)
	}
	if u, p := r.splitPrefix(sym, ci, true); u != nil {
		return u, p
	}
	if u := r.unit(sym, ci); u != nil {
		return u, nil
	}
	return r.splitPrefix(sym, ci, false)
}

// splitPrefix returns the first prefix in lookup order that is followed by
// a unit code, which must be metric if metric is set.
func (r *Registry) splitPrefix(sym string, ci, metric bool) (*Unit, *Prefix) {
	order := r.prefixOrderCS
	if ci {
		order = r.prefixOrderCI
	}
	for _, pi := range order {
		p := &r.prefixes[pi]
		code := p.Code
		if ci {
			code = p.CICode
		}
		if len(sym) <= len(code) || !strings.HasPrefix(sym, code) {
			continue
		}
		if u := r.unit(sym[len(code):], ci); u != nil && (u.Metric || !metric) {
			return u, p
		}
	}
	return nil, nil
}

// UnitsWithProperty returns the units measuring the property,
// compared case-insensitively.
func (r *Registry) UnitsWithProperty(property string) []*Unit {
	var us []*Unit
	for i := range r.units {
		if strings.EqualFold(r.units[i].Property, property) {
			us = append(us, &r.units[i])
		}
	}
	return us
}

// Properties returns the sorted set of properties measured by the units.
func (r *Registry) Properties() []string {
	seen := make(map[string]struct{})
	var props []string
	for i := range r.units {
		p := r.units[i].Property
		if _, ok := seen[p]; ok || p == "" {
			continue
		}
		seen[p] = struct{}{}
		props = append(props, p)
	}
	sort.Strings(props)
	return props
}
