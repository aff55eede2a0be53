package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, int32(10), cfg.Storage.PoolMaxConns)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, uint32(5), cfg.Remote.BreakerFailures)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.ErrorContains(t, cfg.Validate(), "jwt_secret")
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
storage:
  driver: Postgres
  postgres_dsn: postgres://localhost/splitfree
remote:
  base_url: https://api.example.com
  timeout: 3s
auth:
  jwt_secret: from-file
  session_ttl: 12h
`), 0o644))

	t.Setenv("SPLITFREE_AUTH_JWT_SECRET", "from-env")
	t.Setenv("SPLITFREE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "https://api.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret, "environment overrides the file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage: StorageConfig{Driver: "sqlite", SQLitePath: "x.db"},
			Remote:  RemoteConfig{BaseURL: "http://api"},
			Auth:    AuthConfig{JWTSecret: "s", SessionTTL: time.Hour},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }, "unknown storage driver"},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = "postgres" }, "postgres_dsn"},
		{"no remote", func(c *Config) { c.Remote.BaseURL = "" }, "base_url"},
		{"no ttl", func(c *Config) { c.Auth.SessionTTL = 0 }, "session_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.want)
			}
		})
	}
}
