package ucum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govalues/ucum/decimal"
)

func convert(t *testing.T, reg *Registry, value, src, dst string) (decimal.Decimal, error) {
	t.Helper()
	fs, err := reg.CanonicalizeString(src)
	require.NoError(t, err, src)
	fd, err := reg.CanonicalizeString(dst)
	require.NoError(t, err, dst)
	return Convert(decimal.MustParse(value), fs, fd)
}

func TestConvert(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		value, src, dst, want string
	}{
		// linear
		{"1", "mm", "m", "0.001"},
		{"1", "m", "mm", "1000"},
		{"1", "[in_i]", "cm", "2.54"},
		{"2.54", "cm", "[in_i]", "1.00"},
		{"12", "[in_i]", "[ft_i]", "1"},
		{"1", "h", "s", "3600"},
		{"1.0", "h", "min", "60"},
		{"1", "[mi_i]", "km", "1.609344"},
		{"1", "[degR]", "K", "0.555555555555555555555556"},
		{"9", "[degR]", "K", "5"},
		{"1", "l", "dm3", "1"},
		{"5", "%", "1", "0.05"},
		{"1", "[lb_av]", "kg", "0.45359237"},
		{"1", "[IU]", "[iU]", "1"},
		{"1", "kg.m/s2", "N", "1"},
		{"1", "10*3", "1", "1000"},
		{"1", "[gal_br]", "l", "4.54609"},
		{"1", "[bu_br]", "[gal_br]", "8"},
		{"1", "[twp]", "[sct]", "36"},
		{"1", "[lb_ap]", "[oz_tr]", "12"},
		{"1", "[dr_ap]", "[gr]", "60"},
		{"1", "[lton_av]", "[lb_av]", "2240"},
		{"1", "[pied]", "cm", "32.48"},
		{"1", "[MET]", "ml/min/kg", "3.5"},

		// affine
		{"0", "Cel", "K", "273.15"},
		{"300", "K", "Cel", "26.85"},
		{"32", "[degF]", "Cel", "0"},
		{"100", "Cel", "[degF]", "212"},
		{"0", "[degRe]", "Cel", "0"},
		{"80", "[degRe]", "Cel", "100"},
		{"-40", "[degF]", "Cel", "-40"},
		{"1000", "mCel", "Cel", "1"},
		{"0", "Cel", "[degR]", "491.67"},

		// logarithmic
		{"7", "[pH]", "mol/l", "0.0000001"},
		{"0.001", "mol/l", "[pH]", "3"},
		{"7.0", "[pH]", "mol/l", "0.00000010"},
		{"0.0010", "mol/l", "[pH]", "3.0"},
		{"20", "dB", "B", "2"},
		{"1", "B[W]", "W", "10"},
		{"10", "W", "B[W]", "1"},
		{"1", "B[kW]", "W", "10000"},
		{"2", "B[V]", "V", "10"},
		{"1", "bit_s", "1", "2"},
		{"8", "1", "bit_s", "3"},
		{"3", "[hp'_C]", "1", "0.000001"},

		// square root
		{"3", "[m/s2/Hz^(1/2)]", "m2/s3", "9"},
	}
	for _, tt := range tests {
		got, err := convert(t, reg, tt.value, tt.src, tt.dst)
		require.NoError(t, err, "%v %v -> %v", tt.value, tt.src, tt.dst)
		assert.Equal(t, tt.want, got.String(), "%v %v -> %v", tt.value, tt.src, tt.dst)
	}
}

func TestConvert_transcendental(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		value, src, dst, want string
	}{
		{"1", "Np", "1", "2.718281828"},
		{"2", "W", "B[W]", "0.3010299957"},
		{"2", "m2/s3", "[m/s2/Hz^(1/2)]", "1.414213562"},
		{"100", "[p'diop]", "deg", "45.00000000"},
	}
	for _, tt := range tests {
		got, err := convert(t, reg, tt.value, tt.src, tt.dst)
		require.NoError(t, err, "%v %v -> %v", tt.value, tt.src, tt.dst)
		assert.Equal(t, tt.want, got.Round(10).String(), "%v %v -> %v", tt.value, tt.src, tt.dst)
	}
}

func TestConvert_errors(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		value, src, dst string
		want            error
	}{
		{"1", "m", "s", ErrNotComparable},
		{"1", "Cel", "m", ErrNotComparable},
		{"1", "[iU]", "1", ErrNotComparable},
		{"1", "[arb'U]", "[iU]", ErrNotComparable},
		{"0", "mol/l", "[pH]", ErrUncomputableUnit},
		{"-1", "W", "B[W]", ErrUncomputableUnit},
		{"-4", "m2/s3", "[m/s2/Hz^(1/2)]", ErrUncomputableUnit},
		{"1", "1", "0", ErrDivisionByZero},
	}
	for _, tt := range tests {
		_, err := convert(t, reg, tt.value, tt.src, tt.dst)
		require.ErrorIs(t, err, tt.want, "%v %v -> %v", tt.value, tt.src, tt.dst)
	}
}

func TestConvert_roundTrip(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		value, a, b string
	}{
		{"1", "kg", "[lb_av]"},
		{"1", "[ft_us]", "m"},
		{"12", "[degF]", "K"},
		{"37", "Cel", "[degF]"},
		{"1", "[gal_us]", "l"},
	}
	for _, tt := range tests {
		v := decimal.MustParse(tt.value)
		there, err := convert(t, reg, tt.value, tt.a, tt.b)
		require.NoError(t, err)
		back, err := convert(t, reg, there.String(), tt.b, tt.a)
		require.NoError(t, err)
		assert.Zero(t, back.Cmp(v), "%v %v -> %v %v -> %v", tt.value, tt.a, there, tt.b, back)
	}
}

func TestRegistry_Multiply(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		a, b, want Pair
	}{
		{Pair{decimal.MustParse("2"), "m"}, Pair{decimal.MustParse("3"), "s"}, Pair{decimal.MustParse("6"), "m.s"}},
		{Pair{decimal.MustParse("2"), "km"}, Pair{decimal.MustParse("3"), "s"}, Pair{decimal.MustParse("6000"), "m.s"}},
		{Pair{decimal.MustParse("2"), "m"}, Pair{decimal.MustParse("3"), "m"}, Pair{decimal.MustParse("6"), "m2"}},
		{Pair{decimal.MustParse("2"), "m"}, Pair{decimal.MustParse("3"), "/m"}, Pair{decimal.MustParse("6"), "1"}},
		{Pair{decimal.MustParse("1.5"), "[in_i]"}, Pair{decimal.MustParse("2"), "[in_i]"}, Pair{decimal.MustParse("0.0019"), "m2"}},
		{Pair{decimal.MustParse("10"), "N"}, Pair{decimal.MustParse("2"), "m"}, Pair{decimal.MustParse("20000"), "g.m2.s-2"}},
	}
	for _, tt := range tests {
		got, err := reg.Multiply(tt.a, tt.b)
		require.NoError(t, err, "%v * %v", tt.a, tt.b)
		assert.Equal(t, tt.want.String(), got.String(), "%v * %v", tt.a, tt.b)
	}
}

func TestRegistry_DivideBy(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		a, b, want Pair
	}{
		{Pair{decimal.MustParse("10"), "m"}, Pair{decimal.MustParse("2"), "s"}, Pair{decimal.MustParse("5"), "m.s-1"}},
		{Pair{decimal.MustParse("1"), "km"}, Pair{decimal.MustParse("1"), "h"}, Pair{decimal.MustParse("0.277777777777777777777778"), "m.s-1"}},
		{Pair{decimal.MustParse("6"), "m2"}, Pair{decimal.MustParse("3"), "m"}, Pair{decimal.MustParse("2"), "m"}},
		{Pair{decimal.MustParse("1"), "m"}, Pair{decimal.MustParse("4"), "m"}, Pair{decimal.MustParse("0.25"), "1"}},
	}
	for _, tt := range tests {
		got, err := reg.DivideBy(tt.a, tt.b)
		require.NoError(t, err, "%v / %v", tt.a, tt.b)
		assert.Equal(t, tt.want.String(), got.String(), "%v / %v", tt.a, tt.b)
	}
}

func TestRegistry_algebraErrors(t *testing.T) {
	t.Parallel()
	reg := Essence()
	one := decimal.MustParse("1")
	_, err := reg.DivideBy(Pair{one, "m"}, Pair{decimal.Decimal{}, "s"})
	require.ErrorIs(t, err, ErrDivisionByZero)
	_, err = reg.Multiply(Pair{one, "Cel"}, Pair{one, "m"})
	require.ErrorIs(t, err, ErrIncompatibleSpecialUnit)
	_, err = reg.DivideBy(Pair{one, "m"}, Pair{one, "[degF]"})
	require.ErrorIs(t, err, ErrIncompatibleSpecialUnit)
	_, err = reg.Multiply(Pair{one, "m"}, Pair{one, "m.."})
	require.ErrorIs(t, err, ErrUnitSyntax)
}
