// Package postgres manages the PostgreSQL connection pool and the
// repositories reading marketplace data for the engine.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/debnit/MsmeBazaar-sub003/internal/config"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

// Connection wraps a pgx connection pool.
type Connection struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewConnection opens a pool against the configured database and verifies it
// with a ping.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*Connection, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "parse database config")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "open database pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	logger.Info("postgres connected",
		logging.String("host", cfg.Host),
		logging.String("database", cfg.DBName))
	return &Connection{pool: pool, logger: logger}, nil
}

// Pool exposes the underlying pgx pool for repositories.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// Ping verifies the pool is alive.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database ping failed")
	}
	return nil
}

// Close releases all pooled connections.
func (c *Connection) Close() {
	c.pool.Close()
}
