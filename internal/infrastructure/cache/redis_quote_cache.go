package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/cabinetquote/backend/internal/infrastructure/config"
)

const defaultKeyPrefix = "quote:"

// RedisQuoteCache implements QuoteCache using Redis.
// Quotes are stored as JSON with a TTL so that multiple instances share one view.
type RedisQuoteCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisQuoteCache connects to Redis and verifies the connection
func NewRedisQuoteCache(cfg config.RedisConfig, keyPrefix string, ttl time.Duration) (*RedisQuoteCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisQuoteCacheWithClient(client, keyPrefix, ttl), nil
}

// NewRedisQuoteCacheWithClient creates a cache with an existing Redis client
func NewRedisQuoteCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisQuoteCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisQuoteCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisQuoteCache) key(id string) string {
	return c.keyPrefix + id
}

// Get loads and decodes a cached quote
func (c *RedisQuoteCache) Get(ctx context.Context, id string) (*quote.Quote, bool, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached quote: %w", err)
	}

	var q quote.Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached quote: %w", err)
	}
	return &q, true, nil
}

// Set encodes q and stores it with the configured TTL
func (c *RedisQuoteCache) Set(ctx context.Context, q *quote.Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to encode quote: %w", err)
	}
	if err := c.client.Set(ctx, c.key(q.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}
	return nil
}

// Invalidate deletes the cached quote
func (c *RedisQuoteCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached quote: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisQuoteCache) Close() error {
	return c.client.Close()
}

var _ QuoteCache = (*RedisQuoteCache)(nil)
