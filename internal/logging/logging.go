package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger writing JSON lines to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Console returns a human-readable logger on stderr.
func Console(level zerolog.Level) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// ParseLevel falls back to info for unknown or empty names.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Component tags every event of log with the emitting component.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
