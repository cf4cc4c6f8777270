package ucum

import (
	"fmt"

	"github.com/govalues/ucum/decimal"
)

// Kind is the closed set of unit kinds.
type Kind int

const (
	// KindBase is a unit that defines one axis of the dimension space.
	KindBase Kind = iota
	// KindDefined is a coefficient times an expression over other units.
	KindDefined
	// KindSpecial is a unit related to its definition by a non-linear
	// transform, such as degree Celsius or bel.
	KindSpecial
	// KindArbitrary is a procedure-defined unit that is not comparable
	// with anything but itself, such as the international unit.
	KindArbitrary
)

func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindDefined:
		return "defined"
	case KindSpecial:
		return "special"
	case KindArbitrary:
		return "arbitrary"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Identification describes the version of a UCUM dataset.
type Identification struct {
	Version      string `yaml:"version" json:"version"`
	RevisionDate string `yaml:"revisionDate" json:"revisionDate"`
}

// Prefix is a metric prefix such as "k" or "m".
type Prefix struct {
	Code   string
	CICode string
	Name   string
	Value  decimal.Decimal // exact
}

func (p *Prefix) String() string {
	return p.Code
}

// Unit is an entry of a [Registry].
// Units are shared by reference and must not be modified.
type Unit struct {
	Kind        Kind
	Code        string
	CICode      string
	Names       []string
	PrintSymbol string
	Property    string
	Class       string
	Metric      bool

	// Dim is the axis name of a base unit, e.g. "L" for the meter.
	Dim string

	// Definition of non-base units: Value times the Expr expression.
	// For special units Transform names the function, and the
	// definition gives the unit of the transform argument.
	Expr      string
	Value     decimal.Decimal // exact
	Transform string

	index int
}

func (u *Unit) String() string {
	return u.Code
}

// Name returns the first display name of the unit.
func (u *Unit) Name() string {
	if len(u.Names) == 0 {
		return u.Code
	}
	return u.Names[0]
}

// IsSpecial reports whether the unit needs a transform to convert.
func (u *Unit) IsSpecial() bool {
	return u.Kind == KindSpecial
}

// PrefixDef is the serialised form of a [Prefix].
type PrefixDef struct {
	Code   string `yaml:"code"`
	CICode string `yaml:"ci"`
	Name   string `yaml:"name"`
	Value  string `yaml:"value"`
}

// UnitDef is the serialised form of a [Unit].
// A definition with a non-empty Dim is a base unit,
// one with a Special function is a special unit.
type UnitDef struct {
	Code        string   `yaml:"code"`
	CICode      string   `yaml:"ci"`
	Names       []string `yaml:"names"`
	PrintSymbol string   `yaml:"print"`
	Property    string   `yaml:"property"`
	Class       string   `yaml:"class"`
	Metric      bool     `yaml:"metric"`
	Dim         string   `yaml:"dim"`
	Special     string   `yaml:"special"`
	Arbitrary   bool     `yaml:"arbitrary"`
	Unit        string   `yaml:"unit"`
	Value       string   `yaml:"value"`
}

func (d *UnitDef) kind() Kind {
	switch {
	case d.Dim != "":
		return KindBase
	case d.Special != "":
		return KindSpecial
	case d.Arbitrary:
		return KindArbitrary
	}
	return KindDefined
}

// Pair is a measured value together with its unit expression.
type Pair struct {
	Value decimal.Decimal `json:"value"`
	Code  string          `json:"code"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%v %v", p.Value, p.Code)
}
