package ucum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govalues/ucum/decimal"
)

func TestRegistry_CanonicalizeString(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		expr, units, scale string
	}{
		{"m", "m", "1"},
		{"m/s2", "m.s-2", "1"},
		{"m.s-2", "m.s-2", "1"},
		{"/s", "s-1", "1"},
		{"(m.s)2/s", "m2.s", "1"},
		{"kg", "g", "1000"},
		{"KG", "g", "1000"},
		{"N", "g.m.s-2", "1000"},
		{"Pa", "g.m-1.s-2", "1000"},
		{"atm", "g.m-1.s-2", "101325000"},
		{"mm[Hg]", "g.m-1.s-2", "133322"},
		{"J/K", "K-1.g.m2.s-2", "1000"},
		{"Ohm", "C-2.g.m2.s-1", "1000"},
		{"Hz", "s-1", "1"},
		{"sr", "rad2", "1"},
		{"l", "m3", "0.001"},
		{"L", "m3", "0.001"},
		{"h", "s", "3600"},
		{"%", "1", "0.01"},
		{"10*3", "1", "1000"},
		{"10*-3", "1", "0.001"},
		{"4.[pi]", "1", "12.5663706143591729538505735331180115367886775975004232838997783692"},
		{"mol", "1", "602214076000000000000000"},
		{"[in_i]", "m", "0.0254"},
		{"[ft_i]", "m", "0.3048"},
		{"[mi_i]", "m", "1609.344"},
		{"[ft_us]", "m", "0.304800609601219202438405"},
		{"[degR]", "K", "0.555555555555555555555556"},
		{"[iU]", "[iU]", "1"},
		{"[IU]/l", "[iU].m-3", "1000"},
		{"{rbc}", "1", "1"},
		{"m{length}", "m", "1"},
	}
	for _, tt := range tests {
		f, err := reg.CanonicalizeString(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.units, f.Units(), tt.expr)
		assert.False(t, f.IsSpecial(), tt.expr)
		v, err := f.Scale.Value()
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.scale, v.String(), tt.expr)
	}
}

func TestRegistry_CanonicalizeString_special(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		expr, units, transform, scale, pre string
	}{
		{"Cel", "K", "cel", "1", "1"},
		{"mCel", "K", "cel", "1", "0.001"},
		{"[degF]", "K", "degf", "5/9", "1"},
		{"[pH]", "m-3", "pH", "602214076000000000000000000", "1"},
		{"dB", "1", "lg", "1", "0.1"},
		{"B[W]", "g.m2.s-3", "lg", "1000", "1"},
		{"B[SPL]", "g.m-1.s-2", "2lg", "0.02", "1"},
		{"[m/s2/Hz^(1/2)]", "m2.s-3", "sqrt", "1", "1"},
		{"Cel/m", "K.m-1", "cel", "1", "1"},
	}
	for _, tt := range tests {
		f, err := reg.CanonicalizeString(tt.expr)
		require.NoError(t, err, tt.expr)
		require.True(t, f.IsSpecial(), tt.expr)
		assert.Equal(t, tt.units, f.Units(), tt.expr)
		assert.Equal(t, tt.transform, f.Special.Transform.Name, tt.expr)
		v, err := f.Special.Pre.Value()
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.pre, v.String(), tt.expr)
		if tt.scale == "5/9" {
			assert.Equal(t, tt.scale, f.Scale.String(), tt.expr)
			continue
		}
		v, err = f.Scale.Value()
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.scale, v.String(), tt.expr)
	}
}

func TestRegistry_CanonicalizeString_errors(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := map[string]error{
		"Cel2":        ErrIncompatibleSpecialUnit,
		"Cel-1":       ErrIncompatibleSpecialUnit,
		"/Cel":        ErrIncompatibleSpecialUnit,
		"m/Cel":       ErrIncompatibleSpecialUnit,
		"Cel.[degF]":  ErrIncompatibleSpecialUnit,
		"(Cel.m)2":    ErrIncompatibleSpecialUnit,
		"B[W].B[kW]":  ErrIncompatibleSpecialUnit,
		"xyz":         ErrUnknownUnit,
		"m..":         ErrUnitSyntax,
		"k[in_i]":     ErrPrefixNotApplicable,
		"m[ft_i]/s":   ErrPrefixNotApplicable,
		"(k[in_i])2":  ErrPrefixNotApplicable,
		"[in_i].(m/s": ErrUnitSyntax,
		"m10000":      ErrUnitSyntax,
		"m9999.m":     ErrUncomputableUnit,
		"((m999)999)": ErrUncomputableUnit,
		"((2)999)999": ErrUncomputableUnit,
	}
	for expr, want := range tests {
		_, err := reg.CanonicalizeString(expr)
		require.ErrorIs(t, err, want, expr)
	}
}

func TestRegistry_Canonicalize_prefixNotApplicable(t *testing.T) {
	t.Parallel()
	reg := Essence()
	k, err := reg.LookupPrefix("k")
	require.NoError(t, err)
	inch, err := reg.LookupUnit("[in_i]")
	require.NoError(t, err)
	term := &Term{Items: []TermItem{{Op: OpMul, Comp: &Component{Factor: &Symbol{Prefix: k, Unit: inch, Text: "k[in_i]"}}}}}
	_, err = reg.Canonicalize(term)
	require.ErrorIs(t, err, ErrPrefixNotApplicable)
}

func TestRegistry_Canonicalize_exponentRange(t *testing.T) {
	t.Parallel()
	reg := Essence()
	m, err := reg.LookupUnit("m")
	require.NoError(t, err)
	for _, n := range []int{math.MaxInt, math.MinInt, MaxExponent + 1} {
		term := &Term{Items: []TermItem{{Op: OpMul, Comp: &Component{Factor: &Symbol{Unit: m, Text: "m"}, Exp: n, HasExp: true}}}}
		_, err = reg.Canonicalize(term)
		require.ErrorIs(t, err, ErrUncomputableUnit, n)
	}
}

func TestRegistry_Canonicalize_foreignUnit(t *testing.T) {
	t.Parallel()
	mini, err := NewRegistry(Identification{}, miniPrefixes(), miniUnits())
	require.NoError(t, err)
	term, err := mini.Parse("[ft]")
	require.NoError(t, err)
	_, err = Essence().Canonicalize(term)
	require.ErrorIs(t, err, ErrUncomputableUnit)
}

func TestRegistry_Canonicalize_deterministic(t *testing.T) {
	t.Parallel()
	reg := Essence()
	for _, expr := range []string{"kg.m/s2", "[degF]", "mm[Hg]", "[ft_us]/h", "B[SPL]"} {
		a, err := reg.CanonicalizeString(expr)
		require.NoError(t, err)
		b, err := reg.CanonicalizeString(expr)
		require.NoError(t, err)
		assert.True(t, a.Dim.Equal(b.Dim), expr)
		av, err := a.Scale.Value()
		require.NoError(t, err)
		bv, err := b.Scale.Value()
		require.NoError(t, err)
		assert.True(t, av.Equal(bv), expr)
	}
}

func TestComparable(t *testing.T) {
	t.Parallel()
	reg := Essence()
	exprs := []string{"m", "[in_i]", "km", "s", "h", "kg", "[lb_av]", "N", "[lbf_av]", "Cel", "K", "[degF]", "[iU]", "[IU]", "1", "%", "mol"}
	forms := make([]*CanonicalForm, len(exprs))
	for i, e := range exprs {
		f, err := reg.CanonicalizeString(e)
		require.NoError(t, err, e)
		forms[i] = f
	}
	for i, a := range forms {
		assert.True(t, Comparable(a, a), exprs[i])
		for j, b := range forms {
			assert.Equal(t, Comparable(a, b), Comparable(b, a), "%v %v", exprs[i], exprs[j])
			for k, c := range forms {
				if Comparable(a, b) && Comparable(b, c) {
					assert.True(t, Comparable(a, c), "%v %v %v", exprs[i], exprs[j], exprs[k])
				}
			}
		}
	}
	assert.True(t, Comparable(forms[0], forms[1]))
	assert.False(t, Comparable(forms[0], forms[3]))
	assert.True(t, Comparable(forms[9], forms[10]))
	assert.True(t, Comparable(forms[12], forms[13]))
	assert.True(t, Comparable(forms[14], forms[16]))
}

func TestDimension(t *testing.T) {
	t.Parallel()
	m := NewDimension("m")
	s := NewDimension("s")
	g := NewDimension("g")

	v := m.Sub(s)
	assert.Equal(t, "m.s-1", v.String())
	a := v.Sub(s)
	assert.Equal(t, "m.s-2", a.String())
	f := g.Add(a)
	assert.Equal(t, "g.m.s-2", f.String())
	assert.Equal(t, NewExponent(-2), f.Exponent("s"))
	assert.True(t, f.Exponent("K").IsZero())

	assert.True(t, m.Sub(m).IsDimensionless())
	assert.Nil(t, m.Sub(m))
	assert.Equal(t, "1", Dimension(nil).String())
	assert.Equal(t, "g2.m2.s-4", f.Scale(2).String())
	assert.Nil(t, f.Scale(0))
	assert.True(t, f.Equal(a.Add(g)))
	assert.False(t, f.Equal(a))

	half := Dimension{{Base: "Hz", Exp: Exponent{Num: -1, Den: 2}}}
	assert.Equal(t, "Hz^(-1/2)", half.String())
	assert.Equal(t, "Hz-1", half.Scale(2).String())
	assert.True(t, half.Add(half).Equal(Dimension{{Base: "Hz", Exp: NewExponent(-1)}}))
}

func TestExponent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		e, f Exponent
		want string
	}{
		{NewExponent(1), NewExponent(2), "3"},
		{Exponent{1, 2}, Exponent{1, 2}, "1"},
		{Exponent{1, 2}, Exponent{1, 3}, "5/6"},
		{Exponent{1, 2}, Exponent{-1, 2}, "0"},
		{Exponent{2, 4}, NewExponent(0), "1/2"},
	}
	for _, tt := range tests {
		got := tt.e.Add(tt.f)
		assert.Equal(t, tt.want, got.String(), "%v + %v", tt.e, tt.f)
	}
	assert.True(t, Exponent{2, 4}.Equal(Exponent{1, 2}))
	assert.Equal(t, "-3/2", Exponent{1, 2}.Mul(-3).String())
}

func TestScale(t *testing.T) {
	t.Parallel()
	reg := Essence()
	f, err := reg.CanonicalizeString("[degF]")
	require.NoError(t, err)
	s := f.Scale
	assert.Equal(t, "9/5", s.Inv().String())
	for n, want := range map[int]string{2: "25/81", -2: "81/25", 0: "1"} {
		p, err := s.Pow(n)
		require.NoError(t, err)
		assert.Equal(t, want, p.String(), n)
	}
	_, err = NewScale(decimal.MustParse("2")).Pow(MaxExponent)
	require.Error(t, err)
	assert.Equal(t, "45/45", s.Mul(s.Inv()).String())
	assert.Equal(t, "25/81", s.Quo(s.Inv()).String())
}
