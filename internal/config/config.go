// Package config defines all configuration structures for the MSME matching
// and valuation engine.  No I/O or parsing logic lives here — only plain data
// types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
)

// Version is injected at build time via ldflags.
var Version = "dev"

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN renders the config as a pgx-compatible connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer parameters for engine events.
type KafkaConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Brokers         []string      `mapstructure:"brokers"`
	MatchTopic      string        `mapstructure:"match_topic"`
	ValuationTopic  string        `mapstructure:"valuation_topic"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// MLServiceConfig holds parameters for the external valuation prediction
// service.
type MLServiceConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ModelVersion string        `mapstructure:"model_version"`
}

// MatchingConfig holds matchmaking engine tunables.
type MatchingConfig struct {
	DefaultLimit int           `mapstructure:"default_limit"`
	MaxLimit     int           `mapstructure:"max_limit"`
	Concurrency  int           `mapstructure:"concurrency"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// ValuationConfig holds valuation orchestrator tunables.  The ML confidence
// thresholds that select the methodology are policy constants in the
// valuation package, not configuration; only operational knobs live here.
type ValuationConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MetricsConfig holds Prometheus collector parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration for all engine processes.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	Database  DatabaseConfig    `mapstructure:"database"`
	Redis     RedisConfig       `mapstructure:"redis"`
	Kafka     KafkaConfig       `mapstructure:"kafka"`
	MLService MLServiceConfig   `mapstructure:"ml_service"`
	Matching  MatchingConfig    `mapstructure:"matching"`
	Valuation ValuationConfig   `mapstructure:"valuation"`
	Metrics   MetricsConfig     `mapstructure:"metrics"`
	Log       logging.LogConfig `mapstructure:"log"`
}

// Validate checks cross-field consistency.  Defaults must have been applied
// first; Validate never fills in missing values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug|release|test, got %q", c.Server.Mode)
	}
	if c.Matching.DefaultLimit <= 0 {
		return fmt.Errorf("matching.default_limit must be positive, got %d", c.Matching.DefaultLimit)
	}
	if c.Matching.MaxLimit < c.Matching.DefaultLimit {
		return fmt.Errorf("matching.max_limit (%d) must be >= matching.default_limit (%d)",
			c.Matching.MaxLimit, c.Matching.DefaultLimit)
	}
	if c.Matching.Concurrency <= 0 {
		return fmt.Errorf("matching.concurrency must be positive, got %d", c.Matching.Concurrency)
	}
	if c.MLService.Timeout <= 0 {
		return fmt.Errorf("ml_service.timeout must be positive, got %s", c.MLService.Timeout)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.enabled is true but kafka.brokers is empty")
	}
	return nil
}
