package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guestlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, StorageFile, cfg.Storage.Type)
	assert.Equal(t, "data/db.json", cfg.Storage.Path)
	assert.Equal(t, "redis://localhost:6379", cfg.Storage.Redis.URL)
	assert.Equal(t, "guestlist:document", cfg.Storage.Redis.Key)
	assert.Equal(t, 10, cfg.Storage.Redis.PoolSize)
	assert.Empty(t, cfg.Admin.TokenHash)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9000
  read_timeout: 5s
storage:
  type: redis
  redis:
    url: redis://cache:6379/2
    key: party:doc
admin:
  token_hash: "$2a$10$abcdefghijklmnopqrstuv"
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/2", cfg.Storage.Redis.URL)
	assert.Equal(t, "party:doc", cfg.Storage.Redis.Key)
	assert.Equal(t, "$2a$10$abcdefghijklmnopqrstuv", cfg.Admin.TokenHash)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
storage:
  path: from-file.json
`)
	t.Setenv("GUESTLIST_SERVER__PORT", "9100")
	t.Setenv("GUESTLIST_STORAGE__TYPE", "memory")
	t.Setenv("GUESTLIST_LOG__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, "from-file.json", cfg.Storage.Path)
	assert.Equal(t, slog.LevelWarn, cfg.Log.SlogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("GUESTLIST_STORAGE__TYPE", "postgres")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage.type "postgres"`)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port 0 out of range"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "out of range"},
		{"empty file path", func(c *Config) { c.Storage.Path = "" }, "storage.path is required"},
		{"redis without url", func(c *Config) {
			c.Storage.Type = StorageRedis
			c.Storage.Redis.URL = ""
		}, "storage.redis.url is required"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, `unknown log.level "loud"`},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, "shutdown_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("memory needs no path", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.Type = StorageMemory
		cfg.Storage.Path = ""
		assert.NoError(t, cfg.Validate())
	})
}
