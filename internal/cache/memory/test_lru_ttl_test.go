package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUTTLEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := NewLRUTTL[string, int](2, time.Hour).OnEvict(func(k string, _ int) { evicted = append(evicted, k) })
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, c.Len())
}

func TestLRUTTLSlidingExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}
	c := NewLRUTTL[string, int](10, time.Minute).WithClock(clk.now)
	c.Set("a", 1)
	c.Set("b", 2)

	clk.t = clk.t.Add(50 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	clk.t = clk.t.Add(50 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok, "get refreshes the ttl")
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestLRUTTLDeleteAndNil(t *testing.T) {
	c := NewLRUTTL[string, int](1, 0)
	c.Set("a", 1)
	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))

	var nilCache *LRUTTL[string, int]
	_, ok := nilCache.Get("a")
	assert.False(t, ok)
	assert.Zero(t, nilCache.Len())
}
