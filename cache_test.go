package ucum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormCache(t *testing.T) {
	t.Parallel()
	reg := Essence()
	form := func(expr string) *CanonicalForm {
		f, err := reg.CanonicalizeString(expr)
		require.NoError(t, err)
		return f
	}
	c := newFormCache(2)
	m, s, g := form("m"), form("s"), form("g")

	c.put("m", m)
	c.put("s", s)
	assert.Equal(t, 2, c.len())
	got, ok := c.get("m")
	require.True(t, ok)
	assert.Same(t, m, got)

	// "m" is the oldest entry even though it was just read
	c.put("g", g)
	assert.Equal(t, 2, c.len())
	_, ok = c.get("m")
	assert.False(t, ok)
	_, ok = c.get("s")
	assert.True(t, ok)
	_, ok = c.get("g")
	assert.True(t, ok)

	// re-adding a cached expression keeps the first form
	c.put("g", m)
	got, _ = c.get("g")
	assert.Same(t, g, got)

	c.put("m", m)
	_, ok = c.get("s")
	assert.False(t, ok)
	assert.Equal(t, 2, c.len())
}
