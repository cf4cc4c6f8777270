package decimal

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Shopspring returns d as a [decimal.Decimal] from github.com/shopspring/decimal.
// The precision marker is dropped.
func (d Decimal) Shopspring() decimal.Decimal {
	c := d.Coef()
	if d.neg {
		c.Neg(c)
	}
	return decimal.NewFromBigInt(c, int32(d.exp))
}

// NewFromShopspring converts s to a decimal with prec significant digits.
// A prec of 0 makes the decimal exact.
func NewFromShopspring(s decimal.Decimal, prec int) Decimal {
	return NewFromBigInt(new(big.Int).Set(s.Coefficient()), int(s.Exponent()), prec)
}
