package contract

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/undid-go/undid/schema"
)

// SetupLogger installs the default slog logger writing to stderr.
func SetupLogger(level schema.LogLevel, useColors bool) *slog.Logger {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slogLevel(level),
		TimeFormat: time.Kitchen,
		NoColor:    !useColors,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if s, ok := a.Value.Any().(string); ok && s == "" {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)
	return logger
}

func slogLevel(level schema.LogLevel) slog.Level {
	switch level {
	case schema.DebugLevel:
		return slog.LevelDebug
	case schema.WarnLevel:
		return slog.LevelWarn
	case schema.ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	slog.Warn(msg, "err", err)
}

// LogInfo logs an informational message with optional key/value pairs.
func LogInfo(msg string, args ...any) {
	slog.Info(msg, args...)
}
