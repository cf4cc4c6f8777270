package decimal

import "fmt"

// MustParse is like [Parse] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding decimals.
func MustParse(dec string) Decimal {
	d, err := Parse(dec)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q) failed: %v", dec, err))
	}
	return d
}

// MustQuo is like [Decimal.Quo] but panics if computing error.
func (d Decimal) MustQuo(e Decimal) Decimal {
	f, err := d.Quo(e)
	if err != nil {
		panic(fmt.Sprintf("MustQuo(%v) failed: %v", d, err))
	}
	return f
}

// MustMulQuo is like [Decimal.MulQuo] but panics if computing error.
func (d Decimal) MustMulQuo(e, f Decimal) Decimal {
	g, err := d.MulQuo(e, f)
	if err != nil {
		panic(fmt.Sprintf("MustMulQuo(%v) failed: %v", d, err))
	}
	return g
}

// MustPow is like [Decimal.Pow] but panics if computing error.
func (d Decimal) MustPow(exp int) Decimal {
	f, err := d.Pow(exp)
	if err != nil {
		panic(fmt.Sprintf("MustPow(%v) failed: %v", d, err))
	}
	return f
}
