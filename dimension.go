package ucum

import (
	"sort"
	"strconv"
	"strings"
)

// MaxExponent is the largest magnitude of an exponent written in a unit
// expression and of any exponent of a canonical dimension.
const MaxExponent = 9999

// Exponent is an exact rational exponent Num/Den with Den > 0
// in lowest terms.
type Exponent struct {
	Num, Den int
}

// NewExponent returns the integer exponent n.
func NewExponent(n int) Exponent {
	return Exponent{Num: n, Den: 1}
}

func newExponent(num, den int) Exponent {
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num, den = num/g, den/g
	}
	return Exponent{Num: num, Den: den}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func (e Exponent) den() int {
	if e.Den == 0 {
		return 1
	}
	return e.Den
}

// Add returns e + f.
func (e Exponent) Add(f Exponent) Exponent {
	return newExponent(e.Num*f.den()+f.Num*e.den(), e.den()*f.den())
}

// Mul returns e * n.
func (e Exponent) Mul(n int) Exponent {
	return newExponent(e.Num*n, e.den())
}

// IsZero reports whether e is 0.
func (e Exponent) IsZero() bool {
	return e.Num == 0
}

// Equal reports whether e and f are the same rational number.
func (e Exponent) Equal(f Exponent) bool {
	return e.Num*f.den() == f.Num*e.den()
}

func (e Exponent) String() string {
	if e.den() == 1 {
		return strconv.Itoa(e.Num)
	}
	return strconv.Itoa(e.Num) + "/" + strconv.Itoa(e.den())
}

// DimFactor is one axis of a [Dimension].
type DimFactor struct {
	Base string   // code of a base or arbitrary unit
	Exp  Exponent // never zero
}

// Dimension is a dimension vector: a mapping from base units to
// rational exponents, kept sorted by base code.
// The nil Dimension is dimensionless.
// Dimensions are values: operations never modify their receivers.
type Dimension []DimFactor

// NewDimension returns the dimension of a single base unit.
func NewDimension(base string) Dimension {
	return Dimension{{Base: base, Exp: NewExponent(1)}}
}

// Add returns the component-wise sum d + e, i.e. the dimension of a product.
func (d Dimension) Add(e Dimension) Dimension {
	z := make(Dimension, 0, len(d)+len(e))
	i, j := 0, 0
	for i < len(d) && j < len(e) {
		switch {
		case d[i].Base < e[j].Base:
			z = append(z, d[i])
			i++
		case d[i].Base > e[j].Base:
			z = append(z, e[j])
			j++
		default:
			if x := d[i].Exp.Add(e[j].Exp); !x.IsZero() {
				z = append(z, DimFactor{Base: d[i].Base, Exp: x})
			}
			i++
			j++
		}
	}
	z = append(z, d[i:]...)
	z = append(z, e[j:]...)
	if len(z) == 0 {
		return nil
	}
	return z
}

// Sub returns d - e, i.e. the dimension of a quotient.
func (d Dimension) Sub(e Dimension) Dimension {
	return d.Add(e.Scale(-1))
}

// Scale returns d with every exponent multiplied by n.
func (d Dimension) Scale(n int) Dimension {
	if n == 0 || len(d) == 0 {
		return nil
	}
	z := make(Dimension, len(d))
	for i, f := range d {
		z[i] = DimFactor{Base: f.Base, Exp: f.Exp.Mul(n)}
	}
	return z
}

// Exponent returns the exponent of the base axis.
func (d Dimension) Exponent(base string) Exponent {
	i := sort.Search(len(d), func(i int) bool { return d[i].Base >= base })
	if i < len(d) && d[i].Base == base {
		return d[i].Exp
	}
	return Exponent{Den: 1}
}

// inRange reports whether no exponent of d exceeds [MaxExponent].
func (d Dimension) inRange() bool {
	for _, f := range d {
		if abs(f.Exp.Num) > MaxExponent || f.Exp.den() > MaxExponent {
			return false
		}
	}
	return true
}

// Equal reports whether d and e are exactly the same vector.
func (d Dimension) Equal(e Dimension) bool {
	if len(d) != len(e) {
		return false
	}
	for i := range d {
		if d[i].Base != e[i].Base || !d[i].Exp.Equal(e[i].Exp) {
			return false
		}
	}
	return true
}

// IsDimensionless reports whether d is the zero vector.
func (d Dimension) IsDimensionless() bool {
	return len(d) == 0
}

// String returns the canonical unit text of d, such as "g.m.s-2",
// or "1" when d is dimensionless.
// Fractional exponents are written as "m^(1/2)".
func (d Dimension) String() string {
	if len(d) == 0 {
		return "1"
	}
	var sb strings.Builder
	for i, f := range d {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(f.Base)
		switch {
		case f.Exp.den() != 1:
			sb.WriteString("^(")
			sb.WriteString(f.Exp.String())
			sb.WriteByte(')')
		case f.Exp.Num != 1:
			sb.WriteString(f.Exp.String())
		}
	}
	return sb.String()
}
