// Package logger builds the diagnostic logger. Diagnostics go to stderr in
// zerolog's console format and stay out of the user-facing output.
package logger

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide diagnostic logger. It discards everything
// until Init is called.
var Logger = zerolog.Nop()

// ParseLevel maps a config level name to a zerolog level. Unknown or empty
// names fall back to warn.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return level
}

// New returns a console logger on w. verbose forces debug level.
func New(w io.Writer, level string, verbose bool) zerolog.Logger {
	lvl := ParseLevel(level)
	if verbose {
		lvl = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Init replaces Logger and returns it.
func Init(w io.Writer, level string, verbose bool) zerolog.Logger {
	Logger = New(w, level, verbose)
	return Logger
}
