package logger

import (
	"io"
	"log/slog"
	"os"
)

var Log *slog.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Init installs the process-wide JSON logger. Production drops debug records.
func Init(environment string) *slog.Logger {
	Log = New(os.Stdout, environment)
	slog.SetDefault(Log)
	return Log
}

// New builds a JSON logger writing to w.
func New(w io.Writer, environment string) *slog.Logger {
	level := slog.LevelDebug
	if environment == "production" {
		level = slog.LevelInfo
	}
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With("environment", environment)
}

// Nop returns a logger that discards everything, handy in tests.
func Nop() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
