package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cabinetquote/backend/internal/infrastructure/config"
)

// Supported cache backends
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Factory creates quote caches based on configuration
type Factory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache builds the configured backend. A Redis backend that cannot be
// reached falls back to memory when fallback is allowed.
func (f *Factory) CreateCache() (QuoteCache, error) {
	switch f.cacheConfig.Backend {
	case BackendMemory, "":
		f.logger.Info("using in-memory quote cache", zap.Duration("ttl", f.cacheConfig.TTL))
		return NewInMemoryQuoteCache(f.cacheConfig.TTL), nil
	case BackendRedis:
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", f.cacheConfig.Backend)
	}

	store, err := NewRedisQuoteCache(f.redisConfig, f.cacheConfig.KeyPrefix, f.cacheConfig.TTL)
	if err == nil {
		f.logger.Info("using Redis quote cache", zap.String("addr", f.redisConfig.RedisAddr()))
		return store, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for quote cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory quote cache. "+
		"Instances will not share cached quotes.",
		zap.Error(err),
	)
	return NewInMemoryQuoteCache(f.cacheConfig.TTL), nil
}
