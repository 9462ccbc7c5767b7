// Package logging builds the zap logger shared by the server and the CLI.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level and output format.
//
//	Production:  json encoding, info level, ISO8601 timestamps
//	Development: console encoding, debug level, colored levels
type Config struct {
	Level             string // debug | info | warn | error
	Encoding          string // json | console
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
}

// DefaultConfig is the production setup.
func DefaultConfig() Config {
	return Config{Level: "info", Encoding: "json"}
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableCaller = cfg.DisableCaller
	zc.DisableStacktrace = cfg.DisableStacktrace

	switch cfg.Encoding {
	case "", "json":
		if cfg.Development && cfg.Encoding == "" {
			zc.Encoding = "console"
		} else {
			zc.Encoding = "json"
			zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		}
	case "console":
		zc.Encoding = "console"
	default:
		return nil, fmt.Errorf("log encoding %q: want json or console", cfg.Encoding)
	}

	return zc.Build()
}
