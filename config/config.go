/*
Package config loads runtime settings for the server and CLI.

SOURCES (later wins):
  1. Defaults below
  2. artisan.yaml in the working directory or $HOME/.artisan (optional)
  3. .env file (optional, loaded into the environment first)
  4. ARTISAN_* environment variables, nested keys joined by "_"
     (store.driver -> ARTISAN_STORE_DRIVER)
  5. Command-line flags bound by the caller

KEYS:
  http.addr           listen address                    :8080
  store.driver        memory | sqlite | redis           sqlite
  store.sqlite_path   SQLite file                       artisan.db
  redis.addr          Redis host:port                   localhost:6379
  redis.password
  redis.db                                              0
  redis.prefix        key namespace                     artisan:
  log.level           debug | info | warn | error       info
  log.encoding        json | console                    json
  log.development                                       false
  watcher.interval    low-stock scan period (0 = off)   1m
  ratelimit.rps       per-client requests per second    10
  ratelimit.burst                                       20
  seed_on_start       load sample data if empty         false
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/warp/artisan-engine/logging"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type Store struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

type Watcher struct {
	Interval time.Duration `mapstructure:"interval"`
}

type RateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Config is the fully resolved configuration.
type Config struct {
	HTTP        HTTP      `mapstructure:"http"`
	Store       Store     `mapstructure:"store"`
	Redis       Redis     `mapstructure:"redis"`
	Log         Log       `mapstructure:"log"`
	Watcher     Watcher   `mapstructure:"watcher"`
	RateLimit   RateLimit `mapstructure:"ratelimit"`
	SeedOnStart bool      `mapstructure:"seed_on_start"`
}

// Logging converts the log section for the logging package.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Encoding: c.Log.Encoding, Development: c.Log.Development}
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverRedis:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("store.driver %q: want memory, sqlite, or redis", c.Store.Driver)
	}
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("ratelimit values must not be negative")
	}
	if c.Watcher.Interval < 0 {
		return errors.New("watcher.interval must not be negative")
	}
	return nil
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "artisan.db")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "artisan:")
	logDefaults := logging.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.encoding", logDefaults.Encoding)
	v.SetDefault("log.development", logDefaults.Development)
	v.SetDefault("watcher.interval", time.Minute)
	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("seed_on_start", false)
}

// New returns a viper instance wired for defaults, the config file, and
// ARTISAN_* variables. Callers may bind flags on it before Load.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigName("artisan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.artisan")

	v.SetEnvPrefix("ARTISAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env files (missing ones are fine), the optional config file,
// and decodes v into a validated Config.
func Load(v *viper.Viper, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f) // Load .env file if it exists
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
