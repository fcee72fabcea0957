// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a development logger for "debug" and a production (JSON)
// logger at the given level otherwise. An empty level means info.
func New(level string) (*zap.Logger, error) {
	switch level = strings.ToLower(strings.TrimSpace(level)); level {
	case "debug":
		return zap.NewDevelopment()
	case "":
		level = "info"
	case "warning":
		level = "warn"
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
