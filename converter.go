package ucum

import (
	"github.com/pkg/errors"

	"github.com/govalues/ucum/decimal"
)

// Comparable reports whether values of the two forms can be converted
// into each other, i.e. whether their dimensions are exactly equal.
func Comparable(a, b *CanonicalForm) bool {
	return a.Dim.Equal(b.Dim)
}

// Convert converts a value from the src unit to the dst unit.
// The linear parts are applied as value * src.Scale / dst.Scale with a
// single rounding; special transforms are applied on either side of it.
func Convert(value decimal.Decimal, src, dst *CanonicalForm) (decimal.Decimal, error) {
	if !Comparable(src, dst) {
		return decimal.Decimal{}, errors.Wrapf(ErrNotComparable, "%v and %v", src.Dim, dst.Dim)
	}
	x, err := src.Special.toAmount(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if x, err = src.Scale.Quo(dst.Scale).Apply(x); err != nil {
		return decimal.Decimal{}, err
	}
	return dst.Special.fromAmount(x)
}

// ToBase returns the amount of canonical base units of value.
func (f *CanonicalForm) ToBase(value decimal.Decimal) (decimal.Decimal, error) {
	x, err := f.Special.toAmount(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return f.Scale.Apply(x)
}

// FromBase is the inverse of [CanonicalForm.ToBase].
func (f *CanonicalForm) FromBase(base decimal.Decimal) (decimal.Decimal, error) {
	x, err := f.Scale.Unapply(base)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return f.Special.fromAmount(x)
}

// toAmount maps a special value to the amount of its definition unit.
// A nil part is the identity.
func (sp *SpecialPart) toAmount(value decimal.Decimal) (decimal.Decimal, error) {
	if sp == nil {
		return value, nil
	}
	x, err := sp.Pre.Apply(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if x, err = sp.Transform.ToBase(x); err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "%v", sp.Unit)
	}
	return x, nil
}

// fromAmount is the inverse of toAmount.
func (sp *SpecialPart) fromAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if sp == nil {
		return amount, nil
	}
	x, err := sp.Transform.FromBase(amount)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "%v", sp.Unit)
	}
	return sp.Pre.Unapply(x)
}

// Multiply returns the product of two measured values in canonical units.
func (r *Registry) Multiply(a, b Pair) (Pair, error) {
	fa, fb, err := r.linearForms(a, b)
	if err != nil {
		return Pair{}, err
	}
	v, err := a.Value.Mul(b.Value).MulQuo(fa.Scale.Num.Mul(fb.Scale.Num), fa.Scale.Den.Mul(fb.Scale.Den))
	if err != nil {
		return Pair{}, err
	}
	return Pair{Value: v, Code: fa.Dim.Add(fb.Dim).String()}, nil
}

// DivideBy returns the quotient of two measured values in canonical units.
// It fails with [ErrDivisionByZero] if the divisor value is zero.
func (r *Registry) DivideBy(a, b Pair) (Pair, error) {
	if b.Value.IsZero() {
		return Pair{}, errors.Wrapf(ErrDivisionByZero, "%v / %v", a, b)
	}
	fa, fb, err := r.linearForms(a, b)
	if err != nil {
		return Pair{}, err
	}
	num := a.Value.Mul(fa.Scale.Num).Mul(fb.Scale.Den)
	v, err := num.MulQuo(decimal.One, b.Value.Mul(fa.Scale.Den).Mul(fb.Scale.Num))
	if err != nil {
		return Pair{}, err
	}
	return Pair{Value: v, Code: fa.Dim.Sub(fb.Dim).String()}, nil
}

func (r *Registry) linearForms(a, b Pair) (*CanonicalForm, *CanonicalForm, error) {
	fa, err := r.CanonicalizeString(a.Code)
	if err != nil {
		return nil, nil, err
	}
	fb, err := r.CanonicalizeString(b.Code)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range []*CanonicalForm{fa, fb} {
		if f.Special != nil {
			return nil, nil, errors.Wrapf(ErrIncompatibleSpecialUnit, "%v in unit algebra", f.Special.Unit)
		}
	}
	return fa, fb, nil
}
