package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespaceLRU_SetGet(t *testing.T) {
	// Arrange
	c := NewNamespaceLRU[[]byte](4)

	// Act
	c.Set("png", "a", []byte("A"))
	got, ok := c.Get("png", "a")
	_, missSVG := c.Get("svg", "a")

	// Assert
	assert.True(t, ok)
	assert.Equal(t, []byte("A"), got)
	assert.False(t, missSVG)
	assert.Equal(t, Stats{Size: 1, Hits: 1, Misses: 1}, c.Stats())
}

func TestNamespaceLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewNamespaceLRU[int](2)
	c.Set("ns", "a", 1)
	c.Set("ns", "b", 2)

	// touching a makes b the eviction candidate
	_, _ = c.Get("ns", "a")
	c.Set("ns", "c", 3)

	_, hasA := c.Get("ns", "a")
	_, hasB := c.Get("ns", "b")
	_, hasC := c.Get("ns", "c")
	assert.True(t, hasA)
	assert.False(t, hasB)
	assert.True(t, hasC)
}

func TestNamespaceLRU_UpdateExisting(t *testing.T) {
	c := NewNamespaceLRU[int](2)
	c.Set("ns", "a", 1)
	c.Set("ns", "a", 2)

	got, ok := c.Get("ns", "a")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestNamespaceLRU_Invalidate(t *testing.T) {
	c := NewNamespaceLRU[string](10)
	c.Set("png", "a", "1")
	c.Set("png", "b", "2")
	c.Set("svg", "a", "3")

	c.Invalidate("png", "a")
	_, ok := c.Get("png", "a")
	assert.False(t, ok)

	c.InvalidateNamespace("png")
	_, ok = c.Get("png", "b")
	assert.False(t, ok)
	_, ok = c.Get("svg", "a")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Stats().Size)
}

func TestNamespaceLRU_Disabled(t *testing.T) {
	c := NewNamespaceLRU[int](0)
	c.Set("ns", "a", 1)

	_, ok := c.Get("ns", "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("ab", ""), Fingerprint("a", "b"))
	assert.Len(t, Fingerprint(), 64)
}
