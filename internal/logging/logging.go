// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New returns a logger on stderr: text on a terminal, JSON otherwise.
// Verbose lowers the level to debug.
func New(verbose bool) *slog.Logger {
	return NewWithWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), verbose)
}

// NewWithWriter builds the logger on w; text selects the text handler.
func NewWithWriter(w io.Writer, text bool, verbose bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
