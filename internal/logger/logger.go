package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger *slog.Logger
	level  = new(slog.LevelVar)
	once   sync.Once
)

func initLogger() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// GetLogger returns the process-wide logger
func GetLogger() *slog.Logger {
	once.Do(initLogger)
	return logger
}

// SetLevel changes the level of the process-wide logger. Unknown names fall
// back to info.
func SetLevel(name string) {
	switch strings.ToLower(name) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}
