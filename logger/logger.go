// Package logger holds the process-wide structured logger.
package logger

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It is a no-op until Initialize is called so
// that library packages can log unconditionally.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize replaces the global logger. JSON output is meant for batch runs
// whose logs are collected, console output for interactive experiments.
func Initialize(jsonOutput bool, level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	var config zap.Config
	if jsonOutput {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	zapLogger, err := config.Build()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	Logger = zapLogger.Sugar()
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = Logger.Sync()
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, errors.Errorf("unknown log level %q", level)
}
