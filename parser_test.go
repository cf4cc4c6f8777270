package ucum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Parse(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		expr, want string
	}{
		{"", "1"},
		{"m", "m"},
		{"m/s2", "m/s2"},
		{"m.s-2", "m.s-2"},
		{"m.s+2", "m.s2"},
		{"/s", "/s"},
		{"kg.m/s2", "kg.m/s2"},
		{"mm[Hg]", "mm[Hg]"},
		{"10*3", "10*3"},
		{"10*-3.l", "10*-3.l"},
		{"4.[pi]", "4.[pi]"},
		{"(m.s)2", "(m.s)2"},
		{"((m))", "((m))"},
		{"m{length}", "m{length}"},
		{"{rbc}", "{rbc}"},
		{"{}", "1"},
		{"/{HPF}", "/{HPF}"},
		{"[in_i'H2O]", "[in_i'H2O]"},
		{"B[10.nV]", "B[10.nV]"},
		{"%[slope]", "%[slope]"},
		{"''", "''"},
		{"KG", "KG"},
	}
	for _, tt := range tests {
		term, err := reg.Parse(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, term.String(), tt.expr)
	}
}

func TestRegistry_Parse_symbols(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		expr, prefix, unit string
	}{
		{"m", "", "m"},
		{"mm", "m", "m"},
		{"cd", "", "cd"},
		{"Pa", "", "Pa"},
		{"kPa", "k", "Pa"},
		{"dam", "da", "m"},
		{"mmol", "m", "mol"},
		{"min", "", "min"},
		{"mCel", "m", "Cel"},
		{"dB", "d", "B"},
		{"KiBy", "Ki", "By"},
		{"mm[Hg]", "m", "m[Hg]"},
		{"m[Hg]", "", "m[Hg]"},
		{"ph", "", "ph"},
		{"MG", "M", "G"},
		{"KG", "k", "g"},
		{"CEL", "", "Cel"},
		{"ML", "M", "L"},
	}
	for _, tt := range tests {
		term, err := reg.Parse(tt.expr)
		require.NoError(t, err, tt.expr)
		syms := term.Symbols()
		require.Len(t, syms, 1, tt.expr)
		if tt.prefix == "" {
			assert.Nil(t, syms[0].Prefix, tt.expr)
		} else if assert.NotNil(t, syms[0].Prefix, tt.expr) {
			assert.Equal(t, tt.prefix, syms[0].Prefix.Code, tt.expr)
		}
		assert.Equal(t, tt.unit, syms[0].Unit.Code, tt.expr)
	}
}

func TestRegistry_ParseCase(t *testing.T) {
	t.Parallel()
	reg := Essence()
	_, err := reg.ParseCase("KG", false)
	require.ErrorIs(t, err, ErrUnknownUnit)
	term, err := reg.ParseCase("KG", true)
	require.NoError(t, err)
	assert.Equal(t, "g", term.Symbols()[0].Unit.Code)
	// "MG" is a megagauss when case matters.
	term, err = reg.Parse("MG")
	require.NoError(t, err)
	assert.Equal(t, "G", term.Symbols()[0].Unit.Code)
	// "Mg" is a megagram when case matters.
	term, err = reg.ParseCase("Mg", false)
	require.NoError(t, err)
	assert.Equal(t, "M", term.Symbols()[0].Prefix.Code)
}

func TestRegistry_Parse_errors(t *testing.T) {
	t.Parallel()
	reg := Essence()
	tests := []struct {
		expr   string
		offset int
	}{
		{"m..", 2},
		{"(m", 0},
		{"((m)", 0},
		{"m)", 1},
		{"m/", 1},
		{".", 0},
		{"/", 0},
		{"xyz", 0},
		{"m.xyz", 2},
		{"m{a", 1},
		{"m}", 1},
		{"m2{", 2},
		{"m{a{b}}", 3},
		{"[in_i", 0},
		{"m]", 1},
		{"m+", 1},
		{"m s", 1},
		{"m.-2", 2},
		{"m(s)", 1},
		{"m..s", 2},
		{"m99999999999999999999", 1},
		{"m\x01", 1},
		{"m10000", 1},
		{"10*99999999", 3},
		{"(m)9223372036854775807.m", 3},
		{"(m)-9223372036854775807/m", 3},
	}
	for _, tt := range tests {
		_, err := reg.Parse(tt.expr)
		require.ErrorIs(t, err, ErrUnitSyntax, tt.expr)
		var se *SyntaxError
		require.ErrorAs(t, err, &se, tt.expr)
		assert.Equal(t, tt.expr, se.Expr)
		assert.Equal(t, tt.offset, se.Offset, "%q: %v", tt.expr, err)
		assert.GreaterOrEqual(t, se.Offset, 0)
		assert.Less(t, se.Offset, len(tt.expr))
	}
}

func TestRegistry_Parse_nonMetricPrefix(t *testing.T) {
	t.Parallel()
	reg := Essence()
	term, err := reg.Parse("k[in_i]")
	require.NoError(t, err)
	sym := term.Symbols()[0]
	require.NotNil(t, sym.Prefix)
	assert.Equal(t, "k", sym.Prefix.Code)
	assert.Equal(t, "[in_i]", sym.Unit.Code)

	// "kh" reads as a kilohenry ignoring case rather than a kilo-hour.
	term, err = reg.Parse("kh")
	require.NoError(t, err)
	assert.Equal(t, "H", term.Symbols()[0].Unit.Code)
}

func TestRegistry_Parse_unknownUnit(t *testing.T) {
	t.Parallel()
	_, err := Essence().Parse("m/xyz")
	require.ErrorIs(t, err, ErrUnknownUnit)
	require.ErrorIs(t, err, ErrUnitSyntax)
	assert.EqualError(t, err, `error processing unit "m/xyz": unknown unit "xyz" at character 2`)
}

func TestTerm_Symbols(t *testing.T) {
	t.Parallel()
	term, err := Essence().Parse("kg.(m/s2)3/[in_i]")
	require.NoError(t, err)
	var codes []string
	for _, s := range term.Symbols() {
		codes = append(codes, s.Text)
	}
	assert.Equal(t, []string{"kg", "m", "s", "[in_i]"}, codes)
}

func FuzzRegistry_Parse(f *testing.F) {
	for _, s := range []string{"m/s2", "mm[Hg]", "10*-3.l", "(m", "m..", "{a}", "kg.m{b}/s2", "[m/s2/Hz^(1/2)]"} {
		f.Add(s)
	}
	reg := Essence()
	f.Fuzz(func(t *testing.T, expr string) {
		term, err := reg.Parse(expr)
		if err != nil {
			var se *SyntaxError
			if !assert.ErrorAs(t, err, &se) {
				return
			}
			if len(expr) > 0 && (se.Offset < 0 || se.Offset >= len(expr)) {
				t.Errorf("Parse(%q) offset %v out of range", expr, se.Offset)
			}
			return
		}
		again, err := reg.Parse(term.String())
		if err != nil {
			t.Errorf("Parse(%q).String() = %q does not parse: %v", expr, term.String(), err)
			return
		}
		if again.String() != term.String() {
			t.Errorf("Parse(%q) is not stable: %q != %q", expr, term.String(), again.String())
		}
	})
}
