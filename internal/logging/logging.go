// Package logging builds the zerolog loggers used by the command line tool.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Base builds a zerolog.Logger writing to stderr.
// format: json|console; level: trace|debug|info|warn|error
func Base(app, level, format string) zerolog.Logger {
	return New(os.Stderr, app, level, format)
}

// New is Base with an explicit writer.
func New(w io.Writer, app, level, format string) zerolog.Logger {
	return zerolog.New(writerForFormat(w, format)).
		Level(parseLevel(level)).
		With().Timestamp().Str("app", app).Logger()
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

func writerForFormat(w io.Writer, format string) io.Writer {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		return zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return w
}
