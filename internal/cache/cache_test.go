package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache_EmptySentinel(t *testing.T) {
	c := New()
	start, end := c.Bounds()
	require.Equal(t, "0", start)
	require.Equal(t, "0", end)
	require.False(t, c.InRange("1655375120328185500"))
}

func TestCache_ReloadAndInRange(t *testing.T) {
	c := New()
	content := "1655375120328185000-cow><?&(^#500 months$%#@*&^&1655375120328185500-dog><?&(^#23 months$%#@*&^&"
	_, err := c.Reload(content, "1655375120328185000", "1655375120328186000")
	require.NoError(t, err)

	require.True(t, c.InRange("1655375120328185500"))
	require.False(t, c.InRange("1655375120328186000"))
	require.False(t, c.InRange("1655375120328184999"))

	v, err := c.Get("1655375120328185000-cow")
	require.NoError(t, err)
	require.Equal(t, "500 months", v)
}

func TestCache_InsertRewrites(t *testing.T) {
	c := New()
	_, err := c.Reload("", "100", "200")
	require.NoError(t, err)

	_, isNew, err := c.Insert("150-k", "v1")
	require.NoError(t, err)
	require.True(t, isNew)

	_, isNew, err = c.Insert("150-k", "v2")
	require.NoError(t, err)
	require.False(t, isNew)

	v, err := c.Get("150-k")
	require.NoError(t, err)
	require.Equal(t, "v2", v)
}
