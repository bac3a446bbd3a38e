package main

import (
	"log/slog"
	"os"
	"strings"
)

const (
	LOG_LEVEL_ERROR   = "ERROR"
	LOG_LEVEL_WARNING = "WARNING"
	LOG_LEVEL_INFO    = "INFO"
	LOG_LEVEL_DEBUG   = "DEBUG"
)

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func parseLogLevel(logLevel string) slog.Level {
	switch strings.ToUpper(logLevel) {
	case LOG_LEVEL_ERROR:
		return slog.LevelError
	case LOG_LEVEL_WARNING:
		return slog.LevelWarn
	case LOG_LEVEL_INFO:
		return slog.LevelInfo
	case LOG_LEVEL_DEBUG:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func initLogger(logLevel string) {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}
