package util

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pattern-analyzer/src/config"
)

var defaultLogger atomic.Pointer[zap.Logger]

func init() {
	defaultLogger.Store(NewLogger(config.LoggingConfig{
		Level:            "info",
		Format:           "text",
		IncludeTimestamp: true,
	}))
}

// NewLogger creates a zap logger from config. Output goes to stderr unless a
// file is configured; an unusable configuration falls back to a no-op logger.
func NewLogger(cfg config.LoggingConfig) *zap.Logger {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zc.Sampling = nil
	zc.DisableStacktrace = true
	zc.DisableCaller = !cfg.IncludeCaller

	if strings.ToLower(cfg.Format) == "json" {
		zc.Encoding = "json"
	} else {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if cfg.IncludeTimestamp {
		zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	} else {
		zc.EncoderConfig.TimeKey = ""
	}

	zc.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetDefaultLogger updates the default logger with new configuration
func SetDefaultLogger(cfg config.LoggingConfig) {
	defaultLogger.Store(NewLogger(cfg))
}

// Nop silences the default logger. Intended for tests and embedded use.
func Nop() {
	defaultLogger.Store(zap.NewNop())
}

// L returns the default structured logger
func L() *zap.Logger {
	return defaultLogger.Load()
}

// Debug logs using the default logger
func Debug(msg string, args ...any) {
	L().Sugar().Debugf(msg, args...)
}

// Info logs using the default logger
func Info(msg string, args ...any) {
	L().Sugar().Infof(msg, args...)
}

// Warn logs using the default logger
func Warn(msg string, args ...any) {
	L().Sugar().Warnf(msg, args...)
}

// Error logs using the default logger
func Error(msg string, args ...any) {
	L().Sugar().Errorf(msg, args...)
}
