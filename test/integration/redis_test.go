//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	redisRepo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/healthcheck"
	"github.com/alchemorsel/recipebox/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRedisCacheRepository(t *testing.T) {
	ctx := context.Background()
	client, err := redisRepo.NewClient(ctx, testutils.SetupTestRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	cache := redisRepo.NewCacheRepository(client, "recipebox-test:", zaptest.NewLogger(t))

	t.Run("SetThenGet_ShouldReturnValue", func(t *testing.T) {
		// Act
		require.NoError(t, cache.Set(ctx, "draft", []byte("Title: Soup"), time.Minute))
		got, err := cache.Get(ctx, "draft")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Title: Soup", string(got))

		raw, err := client.Get(ctx, "recipebox-test:draft").Result()
		require.NoError(t, err)
		assert.Equal(t, "Title: Soup", raw)
	})

	t.Run("Missing_ShouldReturnCacheMiss", func(t *testing.T) {
		_, err := cache.Get(ctx, "nope")

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("Delete_ShouldRemoveKey", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "gone", []byte("x"), time.Minute))

		require.NoError(t, cache.Delete(ctx, "gone"))

		exists, err := cache.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("HealthCheck_ShouldReportHealthy", func(t *testing.T) {
		check := healthcheck.NewRedisChecker(client)

		result := check.Check(ctx)

		assert.Equal(t, healthcheck.StatusHealthy, result.Status)
	})
}
