package config

import "time"

// ApplyDefaults fills in zero-valued fields with production defaults.  It is
// idempotent and never overwrites a value that was explicitly set.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "msme"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "msmebazaar"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30 * time.Minute
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "msme:"
	}

	if cfg.Kafka.MatchTopic == "" {
		cfg.Kafka.MatchTopic = "msme.match.completed"
	}
	if cfg.Kafka.ValuationTopic == "" {
		cfg.Kafka.ValuationTopic = "msme.valuation.completed"
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 100 * time.Millisecond
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	if cfg.MLService.BaseURL == "" {
		cfg.MLService.BaseURL = "http://localhost:8000"
	}
	if cfg.MLService.Timeout == 0 {
		cfg.MLService.Timeout = 5 * time.Second
	}
	if cfg.MLService.ModelVersion == "" {
		cfg.MLService.ModelVersion = "v2.1"
	}

	if cfg.Matching.DefaultLimit == 0 {
		cfg.Matching.DefaultLimit = 10
	}
	if cfg.Matching.MaxLimit == 0 {
		cfg.Matching.MaxLimit = 100
	}
	if cfg.Matching.Concurrency == 0 {
		cfg.Matching.Concurrency = 10
	}
	if cfg.Matching.CacheTTL == 0 {
		cfg.Matching.CacheTTL = 10 * time.Minute
	}

	if cfg.Valuation.CacheTTL == 0 {
		cfg.Valuation.CacheTTL = time.Hour
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "msme"
	}
}

// NewDefaultConfig returns a Config populated entirely from defaults.  Used
// by cmd entry points when no config file is present.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
