package sl

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogger builds the process logger from the config-level strings.
// Unknown levels fall back to info, unknown formats to text.
func SetupLogger(level, format string) *slog.Logger {
	return SetupLoggerWithWriter(os.Stderr, level, format)
}

// SetupLoggerWithWriter is SetupLogger with an explicit output target.
// The TUI owns stderr while it is running, so interactive mode routes
// logs to a file or discards them.
func SetupLoggerWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Err wraps an error as a slog attribute.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
