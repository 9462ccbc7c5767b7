package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/artisan-engine/config"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "artisan.db", cfg.Store.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "artisan:", cfg.Redis.Prefix)
	assert.Equal(t, time.Minute, cfg.Watcher.Interval)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, "info", cfg.Logging().Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ARTISAN_STORE_DRIVER", "memory")
	t.Setenv("ARTISAN_HTTP_ADDR", ":9999")
	t.Setenv("ARTISAN_WATCHER_INTERVAL", "30s")
	t.Setenv("ARTISAN_SEED_ON_START", "true")
	t.Setenv("ARTISAN_REDIS_DB", "3")

	cfg, err := config.Load(config.New(), noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Second, cfg.Watcher.Interval)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_DotEnvFile(t *testing.T) {
	// godotenv writes straight into the process environment.
	t.Cleanup(func() { os.Unsetenv("ARTISAN_LOG_LEVEL") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ARTISAN_LOG_LEVEL=debug\n"), 0o600))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artisan.yaml")
	yaml := "store:\n  driver: redis\nredis:\n  addr: cache:6379\nratelimit:\n  rps: 2.5\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	v := config.New()
	v.SetConfigFile(path)
	cfg, err := config.Load(v, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst, "unset keys keep defaults")
}

func TestValidate(t *testing.T) {
	t.Setenv("ARTISAN_STORE_DRIVER", "postgres")
	_, err := config.Load(config.New(), noEnvFile(t))
	assert.ErrorContains(t, err, "store.driver")

	cfg := config.Config{HTTP: config.HTTP{Addr: ":1"}, Store: config.Store{Driver: config.DriverSQLite}}
	assert.ErrorContains(t, cfg.Validate(), "sqlite_path")

	cfg.Store.SQLitePath = "x.db"
	assert.NoError(t, cfg.Validate())

	cfg.RateLimit.RPS = -1
	assert.Error(t, cfg.Validate())
}
