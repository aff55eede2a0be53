// Package config loads SplitFree settings from an optional YAML file,
// SPLITFREE_* environment variables and built-in defaults, in that order
// of increasing precedence for the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Remote  RemoteConfig
	Auth    AuthConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port       int
	CORSOrigin string `mapstructure:"cors_origin"`

	// SessionSweep is how often expired sessions are purged.
	SessionSweep time.Duration `mapstructure:"session_sweep"`
}

// StorageConfig selects and configures the draft/session store.
type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver       string
	SQLitePath   string `mapstructure:"sqlite_path"`
	PostgresDSN  string `mapstructure:"postgres_dsn"`
	PoolMaxConns int32  `mapstructure:"pool_max_conns"`
}

// RemoteConfig points at the remote SplitFree API.
type RemoteConfig struct {
	BaseURL string `mapstructure:"base_url"`

	// Token is used by the CLI; the server acts with each session's token.
	Token string

	Timeout         time.Duration
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
}

const envPrefix = "SPLITFREE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.session_sweep", time.Hour)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "./data/splitfree.db")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.pool_max_conns", 10)

	v.SetDefault("remote.base_url", "http://localhost:8000")
	v.SetDefault("remote.token", "")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("remote.breaker_failures", 5)
	v.SetDefault("remote.breaker_cooldown", 30*time.Second)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
}

// Load reads configuration. An empty path looks for splitfree.yaml in the
// working directory and carries on without it when absent; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("splitfree")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Remote.BaseURL == "" {
		return errors.New("remote.base_url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}
	return nil
}
