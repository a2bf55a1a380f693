// Package logging builds the diagnostic logger shared by every command.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New returns a console logger writing to stderr. Debug messages are only
// emitted when verbose is set.
func New(verbose bool) zerolog.Logger {
	return NewWriter(os.Stderr, verbose, !term.IsTerminal(int(os.Stderr.Fd())))
}

// NewWriter returns a console logger writing to w.
func NewWriter(w io.Writer, verbose, noColor bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}
	return zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger()
}
