package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

// ErrCacheMiss is returned by Get when the key does not exist.  The engine
// components treat any Get error as a miss, so callers normally do not branch
// on it.
var ErrCacheMiss = errors.New(errors.ErrCodeCacheError, "cache miss")

// Cache stores serialized engine results.  It satisfies the Cache ports of
// both the matching engine and the valuation orchestrator.
type Cache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithPrefix sets the key namespace prepended to every key.
func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) { c.prefix = prefix }
}

// WithDefaultTTL sets the TTL used when a caller passes zero.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.defaultTTL = ttl }
}

// NewCache builds a Cache over an established client.
func NewCache(client *Client, logger logging.Logger, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Cache{
		client:     client,
		logger:     logger,
		prefix:     "msme:",
		defaultTTL: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expirations by +/-10% so hot keys written together do not
// all expire together.
func (c *Cache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get returns the raw bytes stored at key, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "cache get failed")
	}
	return data, nil
}

// Set stores value at key with the given TTL; a zero TTL uses the default.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.rdb.Set(ctx, c.fullKey(key), value, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set failed")
	}
	return nil
}

// Delete removes keys.  Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	if err := c.client.rdb.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}

// GetOrSet returns the cached value for key, or runs loader once and caches
// its result.  Concurrent callers for the same key share a single loader
// invocation via singleflight.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if data, err := c.Get(ctx, key); err == nil {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: another caller may have populated the key while this one
		// waited on the flight group.
		if data, err := c.Get(ctx, key); err == nil {
			return data, nil
		}
		data, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, data, ttl); err != nil {
			c.logger.Warn("cache backfill failed", logging.String("key", key), logging.Err(err))
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Ping reports whether the backing connection is alive.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}
