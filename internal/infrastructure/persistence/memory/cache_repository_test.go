package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()

	newCache := func(t *testing.T, size int) (*CacheRepository, *fakeClock) {
		clock := &fakeClock{now: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
		cache := NewCacheRepository(size, WithClock(clock.Now), WithCleanupInterval(0))
		t.Cleanup(cache.Close)
		return cache, clock
	}

	t.Run("SetThenGet_ShouldReturnValue", func(t *testing.T) {
		// Arrange
		cache, _ := newCache(t, 10)
		require.NoError(t, cache.Set(ctx, "recipe:1", []byte("soup"), time.Hour))

		// Act
		got, err := cache.Get(ctx, "recipe:1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []byte("soup"), got)
	})

	t.Run("Missing_ShouldBeCacheMiss", func(t *testing.T) {
		cache, _ := newCache(t, 10)

		_, err := cache.Get(ctx, "nope")

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("Expired_ShouldBeCacheMiss", func(t *testing.T) {
		// Arrange
		cache, clock := newCache(t, 10)
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
		clock.Advance(2 * time.Minute)

		// Act
		_, err := cache.Get(ctx, "k")
		exists, existsErr := cache.Exists(ctx, "k")

		// Assert
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		require.NoError(t, existsErr)
		assert.False(t, exists)
	})

	t.Run("OverCapacity_ShouldEvictLeastRecentlyUsed", func(t *testing.T) {
		// Arrange
		cache, _ := newCache(t, 2)
		require.NoError(t, cache.Set(ctx, "a", []byte("1"), time.Hour))
		require.NoError(t, cache.Set(ctx, "b", []byte("2"), time.Hour))
		_, err := cache.Get(ctx, "a")
		require.NoError(t, err)

		// Act
		require.NoError(t, cache.Set(ctx, "c", []byte("3"), time.Hour))

		// Assert
		_, err = cache.Get(ctx, "b")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		_, err = cache.Get(ctx, "a")
		assert.NoError(t, err)
		assert.Equal(t, 2, cache.Len())
	})

	t.Run("Delete_ShouldRemove", func(t *testing.T) {
		cache, _ := newCache(t, 10)
		require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Hour))

		require.NoError(t, cache.Delete(ctx, "k"))

		exists, err := cache.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("StoredValue_ShouldNotAliasCaller", func(t *testing.T) {
		cache, _ := newCache(t, 10)
		value := []byte("abc")
		require.NoError(t, cache.Set(ctx, "k", value, time.Hour))

		value[0] = 'x'

		got, err := cache.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})

	t.Run("Sweep_ShouldDropExpiredKeys", func(t *testing.T) {
		cache, clock := newCache(t, 10)
		require.NoError(t, cache.Set(ctx, "short", []byte("v"), time.Minute))
		require.NoError(t, cache.Set(ctx, "long", []byte("v"), time.Hour))
		clock.Advance(10 * time.Minute)

		cache.removeExpired()

		assert.Equal(t, 1, cache.Len())
	})
}
