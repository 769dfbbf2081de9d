package logging

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// EnvLevel names the environment variable that selects the initial level.
const EnvLevel = "OBJSCHEMA_DEBUG"

var (
	logLevel = new(slog.LevelVar)
	logger   atomic.Pointer[slog.Logger]
)

func init() {
	logLevel.Set(parseLogLevel(os.Getenv(EnvLevel)))

	logger.Store(New(os.Stderr))
}

// New returns a text logger writing to w whose level follows SetLogLevel.
func New(w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

// Logger returns the global logger instance.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the global logger. SetLogLevel only affects loggers made
// by New.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// SetLogLevel sets the global log level for the entire library.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// Level reports the current level shared by loggers made by New.
func Level() slog.Level {
	return logLevel.Level()
}

// parseLogLevel converts OBJSCHEMA_DEBUG values to slog levels.
// Mapping: 0=Error, 1=Warn, 2=Info, 3=Debug
// Default: Warn if not set or invalid
func parseLogLevel(envVal string) slog.Level {
	switch envVal {
	case "0":
		return slog.LevelError
	case "1":
		return slog.LevelWarn
	case "2":
		return slog.LevelInfo
	case "3":
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}
