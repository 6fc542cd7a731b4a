package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 10, cfg.Matching.DefaultLimit)
	assert.Equal(t, 5*time.Second, cfg.MLService.Timeout)
	assert.Equal(t, time.Hour, cfg.Valuation.CacheTTL)
}

func TestApplyDefaultsDoesNotOverride(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Matching.DefaultLimit = 25
	cfg.Matching.MaxLimit = 50
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Matching.DefaultLimit)
	assert.Equal(t, 50, cfg.Matching.MaxLimit)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }},
		{"zero limit", func(c *Config) { c.Matching.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Matching.MaxLimit = 1 }},
		{"zero concurrency", func(c *Config) { c.Matching.Concurrency = 0 }},
		{"zero ml timeout", func(c *Config) { c.MLService.Timeout = 0 }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 8181
  mode: debug
matching:
  default_limit: 5
ml_service:
  base_url: http://ml.internal:8000
  timeout: 2s
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 5, cfg.Matching.DefaultLimit)
	assert.Equal(t, "http://ml.internal:8000", cfg.MLService.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.MLService.Timeout)
	// Unset sections fall back to defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p",
		DBName: "msmebazaar", SSLMode: "require",
	}
	assert.Equal(t, "postgres://u:p@db:5433/msmebazaar?sslmode=require", db.DSN())
}
