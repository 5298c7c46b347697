package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisQuoteCacheWithClient_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: unreachableRedis.RedisAddr()})
	c := NewRedisQuoteCacheWithClient(client, "", time.Minute)
	defer c.Close()

	assert.Equal(t, "quote:abc", c.key("abc"))

	custom := NewRedisQuoteCacheWithClient(client, "test:quote:", time.Minute)
	assert.Equal(t, "test:quote:abc", custom.key("abc"))
}

func TestRedisQuoteCache_ConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: unreachableRedis.RedisAddr(), MaxRetries: -1})
	c := NewRedisQuoteCacheWithClient(client, "", time.Minute)
	defer c.Close()
	ctx := context.Background()

	_, found, err := c.Get(ctx, "quote-1")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, c.Set(ctx, cachedQuote("quote-1")))
	assert.Error(t, c.Invalidate(ctx, "quote-1"))
}

func TestNewRedisQuoteCache_Unreachable(t *testing.T) {
	_, err := NewRedisQuoteCache(unreachableRedis, "", time.Minute)
	assert.Error(t, err)
}
