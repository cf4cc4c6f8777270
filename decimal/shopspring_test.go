package decimal

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecimal_Shopspring(t *testing.T) {
	tests := []string{
		"0",
		"1",
		"-1",
		"273.15",
		"-0.0012",
		"602214076000000000000000",
		"3.1415926535897932384626433832795028841971693993751058209749445923",
	}
	for _, tt := range tests {
		d := MustParse(tt)
		got := d.Shopspring()
		want := decimal.RequireFromString(tt)
		if !got.Equal(want) {
			t.Errorf("%q.Shopspring() = %v, want %v", tt, got, want)
		}
		back := NewFromShopspring(got, d.Prec())
		if back.Cmp(d) != 0 || back.Prec() != d.Prec() {
			t.Errorf("NewFromShopspring(%v, %v) = %q, want %q", got, d.Prec(), back, d)
		}
	}
}

func TestNewFromShopspring(t *testing.T) {
	tests := []struct {
		s    string
		prec int
		want string
	}{
		{"2.71828182845904523536028747135266249775", 20, "2.7182818284590452354"},
		{"2.71828182845904523536028747135266249775", 3, "2.72"},
		{"-0.30102999566398119521373889472449302677", 5, "-0.30103"},
		{"100.000", 0, "100"},
		{"0", 0, "0"},
	}
	for _, tt := range tests {
		got := NewFromShopspring(decimal.RequireFromString(tt.s), tt.prec)
		if got.String() != tt.want {
			t.Errorf("NewFromShopspring(%v, %v) = %q, want %q", tt.s, tt.prec, got, tt.want)
		}
		if got.Prec() != tt.prec {
			t.Errorf("NewFromShopspring(%v, %v).Prec() = %v, want %v", tt.s, tt.prec, got.Prec(), tt.prec)
		}
	}
}
