package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenants/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestLRU(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU[string, int](3, 0)
		c.Set("a", 1)
		c.Set("b", 2)

		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU[string, int](3, 0)
		v, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("keeps pointer identity", func(t *testing.T) {
		t.Parallel()

		type item struct{ name string }
		c := cache.NewLRU[string, *item](2, time.Minute)
		stored := &item{name: "acme"}
		c.Set("acme", stored)

		first, ok := c.Get("acme")
		require.True(t, ok)
		second, ok := c.Get("acme")
		require.True(t, ok)
		assert.Same(t, stored, first)
		assert.Same(t, first, second)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU[string, int](2, 0)
		c.Set("a", 1)
		c.Set("b", 2)
		_, _ = c.Get("a")
		c.Set("c", 3)

		_, ok := c.Get("b")
		assert.False(t, ok)
		_, ok = c.Get("a")
		assert.True(t, ok)
		_, ok = c.Get("c")
		assert.True(t, ok)
	})

	t.Run("expires entries", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := cache.NewLRU[string, int](2, time.Minute, cache.WithClock(clock.Now))
		c.Set("a", 1)

		clock.Advance(30 * time.Second)
		_, ok := c.Get("a")
		assert.True(t, ok)

		clock.Advance(31 * time.Second)
		_, ok = c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("set refreshes expiration", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := cache.NewLRU[string, int](2, time.Minute, cache.WithClock(clock.Now))
		c.Set("a", 1)
		clock.Advance(50 * time.Second)
		c.Set("a", 2)
		clock.Advance(50 * time.Second)

		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 2, v)
	})

	t.Run("delete and purge", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU[string, int](3, 0)
		c.Set("a", 1)
		c.Set("b", 2)

		assert.True(t, c.Delete("a"))
		assert.False(t, c.Delete("a"))
		assert.Equal(t, 1, c.Len())

		c.Purge()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("panics on zero capacity", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			cache.NewLRU[string, int](0, 0)
		})
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRU[int, int](50, time.Minute)
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := range 100 {
					c.Set(n*100+j, j)
					c.Get(n*100 + j)
				}
			}(i)
		}
		wg.Wait()
		assert.LessOrEqual(t, c.Len(), 50)
	})
}
