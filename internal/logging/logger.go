// Package logging builds zap loggers from configuration.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/proxyme/proxyme/internal/cli/config"
)

// New builds a logger for cfg.
// Development mode uses zap's development config, otherwise the production config.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.Format != "" {
		zc.Encoding = cfg.Format
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Verbose returns a debug-level development logger, falling back to a no-op logger
func Verbose() *zap.Logger {
	logger, err := New(config.LoggingConfig{Level: "debug", Format: "console", Development: true})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
