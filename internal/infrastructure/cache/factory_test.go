package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cabinetquote/backend/internal/infrastructure/config"
)

// unreachableRedis points at a port nothing listens on
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestFactory_CreateCache(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		f := NewFactory(config.CacheConfig{Backend: BackendMemory, TTL: time.Minute}, config.RedisConfig{})
		c, err := f.CreateCache()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &InMemoryQuoteCache{}, c)
	})

	t.Run("unsupported backend", func(t *testing.T) {
		f := NewFactory(config.CacheConfig{Backend: "memcached"}, config.RedisConfig{})
		_, err := f.CreateCache()
		assert.Error(t, err)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		f := NewFactory(
			config.CacheConfig{Backend: BackendRedis, TTL: time.Minute},
			unreachableRedis,
			WithLogger(zap.New(core)),
		)
		c, err := f.CreateCache()
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &InMemoryQuoteCache{}, c)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f := NewFactory(
			config.CacheConfig{Backend: BackendRedis, TTL: time.Minute},
			unreachableRedis,
			WithInMemoryFallback(false),
		)
		_, err := f.CreateCache()
		assert.Error(t, err)
	})
}
