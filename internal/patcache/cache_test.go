package patcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	c, err := New[int](16)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("/a/")
	assert.False(t, ok)

	c.Put("/a/", 1)
	c.Wait()

	v, ok := c.Get("/a/")
	if ok {
		assert.Equal(t, 1, v)
	}
}

func TestCache_InvalidSize(t *testing.T) {
	_, err := New[int](0)
	assert.Error(t, err)
}

func TestCache_NilIsUsable(t *testing.T) {
	var c *Cache[string]
	c.Put("/x/", "x")
	c.Wait()
	_, ok := c.Get("/x/")
	assert.False(t, ok)
}

func TestKeyToHash_DistinctKeys(t *testing.T) {
	a1, a2 := keyToHash("/a/")
	b1, b2 := keyToHash("/b/")
	assert.False(t, a1 == b1 && a2 == b2)

	z1, z2 := keyToHash(42)
	assert.Zero(t, z1)
	assert.Zero(t, z2)
}
