package logging

import (
	"fmt"
	"strings"

	"github.com/mikey/nb-spam-filter/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes a logger based on configuration
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.GetLogging()
	return build(ParseLevel(lc.Level), lc.Format == "json")
}

// InitConsoleLogger initializes a console-friendly logger
func InitConsoleLogger(verbose bool, jsonFormat bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return build(level, jsonFormat)
}

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func build(level zapcore.Level, jsonFormat bool) (*zap.Logger, error) {
	var logConfig zap.Config
	if jsonFormat {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}
