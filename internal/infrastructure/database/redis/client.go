// Package redis provides the Redis client and the cache layer backing match
// and valuation results.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/debnit/MsmeBazaar-sub003/internal/config"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

// Client wraps the go-redis client with engine defaults.
type Client struct {
	rdb    *redis.Client
	logger logging.Logger
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis connection failed")
	}

	logger.Info("redis connected", logging.String("addr", cfg.Addr), logging.Int("db", cfg.DB))
	return &Client{rdb: rdb, logger: logger}, nil
}

// newClientFromRedis wraps an existing go-redis client; used by tests to
// point at miniredis.
func newClientFromRedis(rdb *redis.Client, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{rdb: rdb, logger: logger}
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis ping failed")
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
