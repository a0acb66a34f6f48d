package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/pin-banking-ledger/internal/config"
)

// NewLogger creates and configures a new slog.Logger writing to stderr
func NewLogger(cfg *config.Config) *slog.Logger {
	return NewLoggerTo(os.Stderr, cfg)
}

// NewLoggerTo creates a logger writing to w. The ATM keeps stdout for its
// prompts, so every binary logs to stderr through here.
func NewLoggerTo(w io.Writer, cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)
	addSource := level == slog.LevelDebug

	var handler slog.Handler
	if strings.ToLower(cfg.Logging.Format) == "text" {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  addSource,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: addSource,
		})
	}

	logger := slog.New(handler)
	logger.Debug("logger initialized", "level", level, "format", cfg.Logging.Format)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
