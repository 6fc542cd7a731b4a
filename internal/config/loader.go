package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "MSME"

// newViper builds a pre-configured Viper instance with the engine's standard
// settings: YAML file type, MSME_ env prefix, automatic env binding, and a
// key replacer that maps "." → "_" so that nested keys like "database.host"
// resolve to "MSME_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges any MSME_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.  It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MSME_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	MSME_<SECTION>_<FIELD>   e.g.  MSME_DATABASE_HOST, MSME_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level and cache TTLs;
// callers are responsible for applying only the safe subset of changes at
// runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// If the changed file fails to parse or validate, onChange is NOT called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// Skip the callback to prevent the application from entering a
			// broken state on a bad edit.
			return
		}
		onChange(cfg)
	})
}
