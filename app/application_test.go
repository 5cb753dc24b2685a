package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"contentagent.app/config"
)

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		Enabled:           true,
		MaxBytes:          1024 * 1024,
		DefaultTTLSeconds: 3600,
		DialTimeout:       1,
		ReadTimeout:       1,
		WriteTimeout:      1,
	}
}

func TestBuildCache(t *testing.T) {
	t.Run("LocalOnly", func(t *testing.T) {
		tiered, err := BuildCache(testCacheConfig())
		require.NoError(t, err)
		require.NotNil(t, tiered)

		ctx := context.Background()
		require.NoError(t, tiered.Set(ctx, "k", "value", time.Minute))

		var got string
		found, err := tiered.Get(ctx, "k", &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "value", got)
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg := testCacheConfig()
		cfg.Enabled = false

		tiered, err := BuildCache(cfg)
		require.NoError(t, err)
		assert.Nil(t, tiered)
	})

	t.Run("UnreachableRedisDegradesToLocal", func(t *testing.T) {
		cfg := testCacheConfig()
		cfg.RedisAddr = "localhost:1"

		tiered, err := BuildCache(cfg)
		require.NoError(t, err)
		require.NotNil(t, tiered)

		ctx := context.Background()
		require.NoError(t, tiered.Set(ctx, "k", 42, time.Minute))

		var got int
		found, err := tiered.Get(ctx, "k", &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 42, got)
	})

	t.Run("InvalidMaxBytes", func(t *testing.T) {
		cfg := testCacheConfig()
		cfg.MaxBytes = 0

		_, err := BuildCache(cfg)
		assert.Error(t, err)
	})
}
