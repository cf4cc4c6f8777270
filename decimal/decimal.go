package decimal

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Decimal type is a representation of a finite decimal number together with
// the number of its significant digits that are known to be correct.
// The zero value is an exact 0.
// It is designed to be safe for concurrent use by multiple goroutines.
//
// A decimal type is a struct with four parameters:
//
//   - Sign: a boolean indicating whether the decimal is negative.
//   - Coefficient: an arbitrary-precision integer value of the decimal
//     without the decimal point.
//   - Exponent: an integer indicating the power of ten the coefficient is
//     multiplied by.
//   - Precision: the number of significant digits guaranteed, or 0 if the
//     value is exact.
//
// For example, a decimal with a coefficient of 12345, an exponent of -2
// and a precision of 5 represents the measured value 123.45.
type Decimal struct {
	neg  bool  // indicates whether the decimal is negative
	coef *bint // the absolute coefficient, nil means 0; never modified after construction
	exp  int   // the power of ten the coefficient is multiplied by
	prec int   // significant digits guaranteed, 0 means exact
}

const (
	// DivPrec is the number of significant digits kept when the quotient
	// of two exact values has no finite decimal expansion.
	DivPrec = 24
	// MaxExp is the largest absolute exponent accepted by [Parse].
	MaxExp = 1_000_000
	// MaxPowDigits is the largest number of coefficient digits
	// [Decimal.Pow] is allowed to compute.
	MaxPowDigits = 4096
)

var (
	// ErrMalformedNumber is returned when a string does not represent a decimal.
	ErrMalformedNumber = errors.New("malformed number")
	// ErrDivisionByZero is returned when the divisor is exactly zero.
	ErrDivisionByZero = errors.New("division by zero")

	errExponentRange = fmt.Errorf("exponent out of range: %w", ErrMalformedNumber)
	errInvalidPower  = errors.New("zero raised to a negative power")
	errPowerRange    = errors.New("power out of range")
)

var (
	Zero = Decimal{}             // Zero is an exact 0.
	One  = New(1, 0)             // One is an exact 1.
	Ten  = New(10, 0)            // Ten is an exact 10.
	Pi   = MustParse("3.1415926535897932384626433832795028841971693993751058209749445923").Exact()
)

// newDecimal normalises the parts and rounds the coefficient to prec
// significant digits when the value is not exact.
func newDecimal(neg bool, coef *bint, exp, prec int) Decimal {
	if coef == nil || coef.sign() == 0 {
		if prec == 0 {
			return Decimal{}
		}
		return Decimal{exp: exp, prec: prec}
	}
	if prec > 0 {
		var shift int
		coef, shift = roundSig(coef, prec)
		exp += shift
		coef, exp = padZeros(coef, exp, prec)
	} else {
		coef, exp = trimZeros(coef, exp)
	}
	return Decimal{neg: neg, coef: coef, exp: exp, prec: prec}
}

// New returns an exact decimal equal to coef * 10^exp.
func New(coef int64, exp int) Decimal {
	neg := coef < 0
	c := newBint()
	c.setInt64(coef)
	c.abs(c)
	return newDecimal(neg, c, exp, 0)
}

// NewFromInt64 returns an exact decimal equal to i.
func NewFromInt64(i int64) Decimal {
	return New(i, 0)
}

// NewFromBigInt returns a decimal equal to coef * 10^exp with the given
// number of significant digits.
// A prec of 0 makes the decimal exact.
// NewFromBigInt does not retain coef.
func NewFromBigInt(coef *big.Int, exp, prec int) Decimal {
	if prec < 0 {
		prec = 0
	}
	c := newBint()
	c.abs((*bint)(coef))
	return newDecimal(coef.Sign() < 0, c, exp, prec)
}

// Parse converts a string to a decimal.
// The input string must be in one of the following formats:
//
//	1.234
//	-1234
//	+0.000001234
//	1.83e5
//	0.22e-9
//
// The formal EBNF grammar for the supported format is as follows:
//
//	sign           ::= '+' | '-'
//	digits         ::= { '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9' }
//	significand    ::= digits '.' digits | '.' digits | digits '.' | digits
//	exponent       ::= ('e' | 'E') [sign] digits
//	numeric-string ::= [sign] significand [exponent]
//
// An integer without a fractional part and without an exponent is an exact
// count. Any other literal carries as many significant digits as were
// written, leading zeros excluded.
//
// Parse returns an error wrapping [ErrMalformedNumber] if the string does not
// represent a valid decimal number or if its exponent exceeds [MaxExp].
func Parse(dec string) (Decimal, error) {
	var (
		pos     int
		width   int
		neg     bool
		coef    *bint
		scale   int
		hascoef bool
		hasdot  bool
		eneg    bool
		exp     int
		hasexp  bool
		hase    bool
	)

	coef = newBint()
	width = len(dec)

	// Sign
	switch {
	case pos == width:
		// skip
	case dec[pos] == '-':
		neg = true
		pos++
	case dec[pos] == '+':
		pos++
	}

	// Integer
	for pos < width && dec[pos] >= '0' && dec[pos] <= '9' {
		hascoef = true
		coef.fsa(coef, 1, dec[pos]-'0')
		pos++
	}

	// Fraction
	if pos < width && dec[pos] == '.' {
		hasdot = true
		pos++
		for pos < width && dec[pos] >= '0' && dec[pos] <= '9' {
			hascoef = true
			coef.fsa(coef, 1, dec[pos]-'0')
			scale++
			pos++
		}
	}

	// Exponential part
	if pos < width && (dec[pos] == 'e' || dec[pos] == 'E') {
		hase = true
		pos++
		// Sign
		switch {
		case pos == width:
			// skip
		case dec[pos] == '-':
			eneg = true
			pos++
		case dec[pos] == '+':
			pos++
		}
		// Integer
		for pos < width && dec[pos] >= '0' && dec[pos] <= '9' {
			exp = exp*10 + int(dec[pos]-'0')
			if exp > MaxExp {
				return Decimal{}, errExponentRange
			}
			hasexp = true
			pos++
		}
	}

	if pos != width {
		return Decimal{}, fmt.Errorf("invalid character %q: %w", dec[pos], ErrMalformedNumber)
	}
	if !hascoef {
		return Decimal{}, fmt.Errorf("no coefficient: %w", ErrMalformedNumber)
	}
	if hase && !hasexp {
		return Decimal{}, fmt.Errorf("no exponent: %w", ErrMalformedNumber)
	}

	if eneg {
		exp = -exp
	}
	exp -= scale

	prec := 0
	if hasdot || hase {
		prec = ndigits(coef)
	}
	return newDecimal(neg, coef, exp, prec), nil
}

// String method implements the [fmt.Stringer] interface and returns
// a string representation of a decimal value.
// The returned string does not use scientific or engineering notation and is
// formatted according to the following formal EBNF grammar:
//
//	sign           ::= '-'
//	digits         ::= { '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9' }
//	significand    ::= digits '.' digits | digits
//	numeric-string ::= [sign] significand
//
// Trailing zeros of an inexact decimal are significant and are kept.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d Decimal) String() string {
	var buf strings.Builder

	coef, exp := d.c(), d.exp
	if d.IsExact() {
		coef, exp = trimZeros(coef, exp)
	}
	digits := coef.string()

	// Sign
	if d.IsNeg() {
		buf.WriteByte('-')
	}

	switch pos := len(digits) + exp; {
	case exp >= 0:
		buf.WriteString(digits)
		if coef.sign() != 0 {
			buf.WriteString(strings.Repeat("0", exp))
		}
	case pos > 0:
		buf.WriteString(digits[:pos])
		buf.WriteByte('.')
		buf.WriteString(digits[pos:])
	default:
		buf.WriteString("0.")
		buf.WriteString(strings.Repeat("0", -pos))
		buf.WriteString(digits)
	}
	return buf.String()
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// Also see method [Parse].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (d *Decimal) UnmarshalText(text []byte) error {
	var err error
	*d, err = Parse(string(text))
	return err
}

// MarshalText implements [encoding.TextMarshaler] interface.
// Also see method [Decimal.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Float64 returns the nearest binary floating-point number rounded
// using "half to even" rule.
// If the decimal is too large for a float64, ok is false.
func (d Decimal) Float64() (f float64, ok bool) {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// c returns the coefficient, substituting nil with a shared zero.
func (d Decimal) c() *bint {
	if d.coef == nil {
		return bzero
	}
	return d.coef
}

// signed returns the coefficient with the sign of d applied.
func (d Decimal) signed() *bint {
	z := newBint()
	z.setBint(d.c())
	if d.neg {
		z.neg(z)
	}
	return z
}

// Coef returns a copy of the absolute coefficient of the decimal.
func (d Decimal) Coef() *big.Int {
	return new(big.Int).Set((*big.Int)(d.c()))
}

// Exp returns the power of ten the coefficient is multiplied by.
func (d Decimal) Exp() int {
	return d.exp
}

// Prec returns the number of significant digits guaranteed,
// or 0 if d is exact.
func (d Decimal) Prec() int {
	return d.prec
}

// IsExact returns true if d carries no measurement uncertainty.
func (d Decimal) IsExact() bool {
	return d.prec == 0
}

// Exact returns d marked as exact.
// It is used for defining constants such as conversion factors.
func (d Decimal) Exact() Decimal {
	return newDecimal(d.neg, d.c(), d.exp, 0)
}

// WithPrec returns d with the precision marker set to prec,
// rounding the coefficient if it has more digits.
// A prec of 0 makes the decimal exact.
func (d Decimal) WithPrec(prec int) Decimal {
	if prec < 0 {
		prec = 0
	}
	return newDecimal(d.neg, d.c(), d.exp, prec)
}

// Round returns d rounded to prec significant digits using
// "half to even" rule.
// The precision of the result never exceeds the precision of d.
func (d Decimal) Round(prec int) Decimal {
	if prec <= 0 {
		return d
	}
	return newDecimal(d.neg, d.c(), d.exp, minPrec(d.prec, prec))
}

// IsInt returns true if the fractional part of d is zero.
func (d Decimal) IsInt() bool {
	if d.exp >= 0 || d.IsZero() {
		return true
	}
	return d.c().ntz() >= -d.exp
}

// Int64 returns the integer part of d truncated towards zero.
// If the result does not fit into int64, ok is false.
func (d Decimal) Int64() (i int64, ok bool) {
	if d.exp > 18 && !d.IsZero() {
		return 0, false
	}
	z := newBint()
	if d.exp >= 0 {
		z.lsh(d.c(), d.exp)
	} else {
		y := newBint()
		y.pow10(-d.exp)
		r := newBint()
		z.quoRem(d.c(), y, r)
	}
	if !(*big.Int)(z).IsInt64() {
		return 0, false
	}
	i = (*big.Int)(z).Int64()
	if d.neg {
		i = -i
	}
	return i, true
}

// Sign returns:
//
//	-1 if d < 0
//	 0 if d == 0
//	+1 if d > 0
func (d Decimal) Sign() int {
	switch {
	case d.IsZero():
		return 0
	case d.neg:
		return -1
	}
	return 1
}

// IsPos returns true if d > 0.
func (d Decimal) IsPos() bool {
	return d.Sign() > 0
}

// IsNeg returns true if d < 0.
func (d Decimal) IsNeg() bool {
	return d.neg && !d.IsZero()
}

// IsZero returns true if d == 0.
func (d Decimal) IsZero() bool {
	return d.c().sign() == 0
}

// IsOne returns true if d == 1.
func (d Decimal) IsOne() bool {
	return d.Cmp(One) == 0
}

// Neg returns d with opposite sign.
func (d Decimal) Neg() Decimal {
	return Decimal{neg: !d.neg && !d.IsZero(), coef: d.coef, exp: d.exp, prec: d.prec}
}

// Abs returns absolute value of d.
func (d Decimal) Abs() Decimal {
	return Decimal{coef: d.coef, exp: d.exp, prec: d.prec}
}

// place returns the exponent of the last significant digit of an inexact d.
func (d Decimal) place() int {
	return d.exp + ndigits(d.c()) - d.prec
}

// Add returns the sum of d and e.
// The sum is computed exactly and then rounded to the least precise decimal
// place of the inexact operands, as measurement uncertainty propagates.
// The sum of two exact decimals is exact.
func (d Decimal) Add(e Decimal) Decimal {
	exp := min(d.exp, e.exp)

	x := d.signed()
	x.lsh(x, d.exp-exp)
	y := e.signed()
	y.lsh(y, e.exp-exp)
	x.add(x, y)

	neg := x.sign() < 0
	x.abs(x)

	if d.IsExact() && e.IsExact() {
		return newDecimal(neg, x, exp, 0)
	}

	// Least precise aligned decimal place
	place := 0
	switch {
	case d.IsExact():
		place = e.place()
	case e.IsExact():
		place = d.place()
	default:
		place = max(d.place(), e.place())
	}
	if place > exp {
		x.rshHalfEven(x, place-exp)
		exp = place
	}
	prec := ndigits(x) + max(0, exp-place)
	return newDecimal(neg, x, exp, prec)
}

// Sub returns the difference of d and e.
// See [Decimal.Add] for the precision rules.
func (d Decimal) Sub(e Decimal) Decimal {
	return d.Add(e.Neg())
}

// Mul returns the product of d and e.
// The precision of the product is the smallest precision of the inexact
// operands.
// The product of two exact decimals is exact.
func (d Decimal) Mul(e Decimal) Decimal {
	z := newBint()
	z.mul(d.c(), e.c())
	return newDecimal(d.neg != e.neg, z, d.exp+e.exp, minPrec(d.prec, e.prec))
}

// Quo returns the quotient of d and e.
// The precision of the quotient is the smallest precision of the inexact
// operands.
// The quotient of two exact decimals is exact if it has a finite decimal
// expansion and is rounded to [DivPrec] significant digits otherwise.
//
// Quo returns an error wrapping [ErrDivisionByZero] if e is 0.
func (d Decimal) Quo(e Decimal) (Decimal, error) {
	return d.MulQuo(One, e)
}

// MulQuo returns d * e / f computed without any intermediate rounding.
// This method is useful for applying a conversion factor kept as a fraction.
//
// MulQuo returns an error wrapping [ErrDivisionByZero] if f is 0.
func (d Decimal) MulQuo(e, f Decimal) (Decimal, error) {
	if f.IsZero() {
		return Decimal{}, fmt.Errorf("computing [%v * %v / %v]: %w", d, e, f, ErrDivisionByZero)
	}

	neg := d.neg != e.neg != f.neg
	prec := minPrec(d.prec, e.prec, f.prec)

	num := newBint()
	num.mul(d.c(), e.c())
	exp := d.exp + e.exp - f.exp
	den := f.c()

	if num.sign() == 0 {
		return newDecimal(false, num, exp, prec), nil
	}

	// Exact quotient with a finite decimal expansion
	if prec == 0 {
		g := newBint()
		g.gcd(num, den)
		rd := newBint()
		rd.quoRem(den, g, newBint())
		rest, twos, fives := strip25(rd)
		if rest.cmp(bpow10[0]) == 0 {
			shift := max(twos, fives)
			q, r := newBint(), newBint()
			num.lsh(num, shift)
			q.quoRem(num, den, r)
			return newDecimal(neg, q, exp-shift, 0), nil
		}
		prec = DivPrec
	}

	// Long division with one guard digit and a sticky remainder
	shift := max(0, prec+ndigits(den)-ndigits(num)+1)
	num.lsh(num, shift)
	q, r := newBint(), newBint()
	q.quoRem(num, den, r)
	exp -= shift
	if r.sign() != 0 {
		q.fsa(q, 1, 1)
		exp--
	}
	return newDecimal(neg, q, exp, prec), nil
}

// Inv returns the reciprocal of d.
//
// Inv returns an error wrapping [ErrDivisionByZero] if d is 0.
func (d Decimal) Inv() (Decimal, error) {
	return One.Quo(d)
}

// Pow returns d raised to the integer power exp.
// The coefficient is raised exactly and rounded once.
//
// Pow returns an error if d is 0 and exp is negative, or if the power
// would exceed [MaxExp] or [MaxPowDigits].
func (d Decimal) Pow(exp int) (Decimal, error) {
	switch {
	case exp == 0:
		return One, nil
	case exp < 0 && d.IsZero():
		return Decimal{}, fmt.Errorf("computing [%v^%v]: %w", d, exp, errInvalidPower)
	}
	n := exp
	if n < 0 {
		n = -n
	}
	if d.IsZero() {
		return Decimal{exp: d.exp, prec: d.prec}, nil
	}
	if d.exp != 0 && n > MaxExp/max(d.exp, -d.exp) ||
		d.c().cmp(bpow10[0]) != 0 && n > MaxPowDigits/ndigits(d.c()) {
		return Decimal{}, fmt.Errorf("computing [%v^%v]: %w", d, exp, errPowerRange)
	}
	z := newBint()
	z.exp(d.c(), n)
	p := newDecimal(d.neg && n%2 == 1, z, d.exp*n, d.prec)
	if exp > 0 {
		return p, nil
	}
	return One.Quo(p)
}

// Cmp compares decimals and returns:
//
//	-1 if d < e
//	 0 if d == e
//	+1 if d > e
//
// The precision markers are ignored.
func (d Decimal) Cmp(e Decimal) int {
	exp := min(d.exp, e.exp)
	x := d.signed()
	x.lsh(x, d.exp-exp)
	y := e.signed()
	y.lsh(y, e.exp-exp)
	return x.cmp(y)
}

// Equal returns true if d and e have the same value and precision.
func (d Decimal) Equal(e Decimal) bool {
	return d.Cmp(e) == 0 && d.prec == e.prec
}

// Max returns the larger decimal.
func (d Decimal) Max(e Decimal) Decimal {
	if d.Cmp(e) >= 0 {
		return d
	}
	return e
}

// Min returns the smaller decimal.
func (d Decimal) Min(e Decimal) Decimal {
	if d.Cmp(e) <= 0 {
		return d
	}
	return e
}
