// Package logging constructs the structured logger used by commands and
// batch jobs.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger with timestamps at the given level.
func New(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewWithWriter creates a logger writing to w, used by tests.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
