package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string](2, time.Minute)
	var evicted []string
	c.OnEvict(func(key string, _ string) { evicted = append(evicted, key) })

	c.Set("a", "A")
	c.Set("b", "B")
	_, _ = c.Get("a")
	c.Set("c", "C")

	_, ok := c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, c.Len())
}

func TestExpiry(t *testing.T) {
	c := New[int](10, time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("a", 1)
	c.Set("b", 2)

	c.now = func() time.Time { return base.Add(30 * time.Second) }
	require.True(t, c.Touch("b"))

	c.now = func() time.Time { return base.Add(61 * time.Second) }
	_, ok := c.Get("a")
	assert.False(t, ok)

	v, ok := c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCleanExpiredNotifies(t *testing.T) {
	c := New[int](10, time.Second)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("a", 1)
	c.Set("b", 2)

	count := 0
	c.OnEvict(func(string, int) { count++ })

	c.now = func() time.Time { return base.Add(2 * time.Second) }
	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 2, count)
	assert.Equal(t, 0, c.Len())
}

func TestDeleteAndClear(t *testing.T) {
	c := New[int](10, time.Minute)
	var keys []string
	c.OnEvict(func(key string, _ int) { keys = append(keys, key) })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Delete("a")
	c.Delete("missing")
	c.Clear()

	assert.ElementsMatch(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, 0, c.Len())
}
