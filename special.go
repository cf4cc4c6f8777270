package ucum

import (
	"github.com/pkg/errors"
	shopspring "github.com/shopspring/decimal"

	"github.com/govalues/ucum/decimal"
)

// Transform relates the value of a special unit to the amount of its
// definition unit.
// ToBase maps a special value to that amount and FromBase is its inverse.
type Transform struct {
	Name     string
	ToBase   func(decimal.Decimal) (decimal.Decimal, error)
	FromBase func(decimal.Decimal) (decimal.Decimal, error)
}

// TranscendentalPrec is the number of significant digits of results
// computed from exact arguments by logarithmic and trigonometric
// transforms.
const TranscendentalPrec = 20

// shopPrec is the number of decimal places shopspring works with.
const shopPrec = 40

var transforms = map[string]Transform{
	"cel":    offset("cel", "273.15"),
	"degf":   offset("degf", "459.67"),
	"degre":  offset("degre", "218.52"),
	"ln":     logarithm("ln", 0, 1, true),
	"lg":     logarithm("lg", 10, 1, false),
	"2lg":    logarithm("2lg", 10, 2, false),
	"ld":     logarithm("ld", 2, 1, false),
	"pH":     logarithm("pH", 10, -1, false),
	"hpX":    logarithm("hpX", 10, -1, false),
	"hpC":    logarithm("hpC", 100, -1, false),
	"hpM":    logarithm("hpM", 1000, -1, false),
	"hpQ":    logarithm("hpQ", 50000, -1, false),
	"100tan": {Name: "100tan", ToBase: atan100, FromBase: tan100},
	"sqrt":   {Name: "sqrt", ToBase: square, FromBase: squareRoot},
}

// LookupTransform returns the special function with the given name.
func LookupTransform(name string) (Transform, bool) {
	t, ok := transforms[name]
	return t, ok
}

// offset returns an affine transform: amount = value + off.
// It is computed exactly.
func offset(name, off string) Transform {
	d := decimal.MustParse(off).Exact()
	return Transform{
		Name:     name,
		ToBase:   func(v decimal.Decimal) (decimal.Decimal, error) { return v.Add(d), nil },
		FromBase: func(r decimal.Decimal) (decimal.Decimal, error) { return r.Sub(d), nil },
	}
}

// logarithm returns the transform value = factor * log_base(amount).
// A base of 0 is the natural logarithm.
func logarithm(name string, base int64, factor int64, natural bool) Transform {
	f := decimal.NewFromInt64(factor)
	return Transform{
		Name: name,
		ToBase: func(v decimal.Decimal) (decimal.Decimal, error) {
			x, err := v.Quo(f)
			if err != nil {
				return decimal.Decimal{}, err
			}
			if natural {
				return exp(x)
			}
			return power(base, x)
		},
		FromBase: func(r decimal.Decimal) (decimal.Decimal, error) {
			if !r.IsPos() {
				return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "%v(%v): argument must be positive", name, r)
			}
			var l decimal.Decimal
			var err error
			if natural {
				l, err = ln(r)
			} else {
				l, err = logBase(base, r)
			}
			if err != nil {
				return decimal.Decimal{}, err
			}
			return l.Mul(f), nil
		},
	}
}

func resultPrec(d decimal.Decimal) int {
	if d.IsExact() {
		return TranscendentalPrec
	}
	return d.Prec()
}

// power returns base^x, exactly when x is an exact integer.
func power(base int64, x decimal.Decimal) (decimal.Decimal, error) {
	if n, ok := x.Int64(); ok && x.IsInt() && n >= -decimal.MaxExp && n <= decimal.MaxExp {
		p, err := decimal.NewFromInt64(base).Pow(int(n))
		if err != nil {
			return decimal.Decimal{}, err
		}
		if x.IsExact() {
			return p, nil
		}
		return p.WithPrec(x.Prec()), nil
	}
	lnb, err := shopspring.NewFromInt(base).Ln(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "ln(%v): %v", base, err)
	}
	y, err := x.Shopspring().Mul(lnb).ExpTaylor(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "%v^%v: %v", base, x, err)
	}
	return decimal.NewFromShopspring(y, resultPrec(x)), nil
}

func exp(x decimal.Decimal) (decimal.Decimal, error) {
	if x.IsZero() {
		return decimal.One.WithPrec(x.Prec()), nil
	}
	y, err := x.Shopspring().ExpTaylor(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "exp(%v): %v", x, err)
	}
	return decimal.NewFromShopspring(y, resultPrec(x)), nil
}

func ln(r decimal.Decimal) (decimal.Decimal, error) {
	if r.IsOne() {
		return decimal.Zero.WithPrec(r.Prec()), nil
	}
	y, err := r.Shopspring().Ln(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "ln(%v): %v", r, err)
	}
	return decimal.NewFromShopspring(y, resultPrec(r)), nil
}

// logBase returns log_base(r), exactly when r is an integer power of base.
func logBase(base int64, r decimal.Decimal) (decimal.Decimal, error) {
	if n, ok := intLog(base, r); ok {
		d := decimal.NewFromInt64(int64(n))
		if r.IsExact() {
			return d, nil
		}
		return d.WithPrec(r.Prec()), nil
	}
	lr, err := r.Shopspring().Ln(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "ln(%v): %v", r, err)
	}
	lb, err := shopspring.NewFromInt(base).Ln(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "ln(%v): %v", base, err)
	}
	return decimal.NewFromShopspring(lr.DivRound(lb, shopPrec), resultPrec(r)), nil
}

// intLog returns n such that base^n == r, if there is one.
func intLog(base int64, r decimal.Decimal) (int, bool) {
	b := decimal.NewFromInt64(base)
	x := r
	n := 0
	if x.Cmp(decimal.One) < 0 {
		for x.Cmp(decimal.One) < 0 {
			x = x.Mul(b)
			n--
			if n < -64 {
				return 0, false
			}
		}
	} else {
		for x.Cmp(b) >= 0 {
			q, err := x.Quo(b)
			if err != nil || !q.Mul(b).Equal(x) {
				return 0, false
			}
			x = q
			n++
			if n > 64 {
				return 0, false
			}
		}
	}
	if x.Cmp(decimal.One) != 0 {
		return 0, false
	}
	return n, true
}

var hundred = decimal.New(100, 0)

// tan100 is the prism diopter: 100 * tan(angle).
func tan100(r decimal.Decimal) (decimal.Decimal, error) {
	y := r.Shopspring().Tan().Mul(shopspring.NewFromInt(100))
	return decimal.NewFromShopspring(y, resultPrec(r)), nil
}

func atan100(v decimal.Decimal) (decimal.Decimal, error) {
	x, err := v.Quo(hundred)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromShopspring(x.Shopspring().Atan(), resultPrec(v)), nil
}

func square(v decimal.Decimal) (decimal.Decimal, error) {
	return v.Mul(v), nil
}

func squareRoot(r decimal.Decimal) (decimal.Decimal, error) {
	if r.IsNeg() {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "sqrt(%v): negative argument", r)
	}
	if r.IsZero() {
		return r, nil
	}
	l, err := r.Shopspring().Ln(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "sqrt(%v): %v", r, err)
	}
	y, err := l.Div(shopspring.NewFromInt(2)).ExpTaylor(shopPrec)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(ErrUncomputableUnit, "sqrt(%v): %v", r, err)
	}
	return decimal.NewFromShopspring(y, resultPrec(r)), nil
}
