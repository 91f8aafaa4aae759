package observability

import (
	"io"
	"log/slog"
)

// NewCLILogger returns a text logger for command-line tools. It writes to w
// (stderr in crisisctl) so stdout carries only command output. Logs are at
// warn level unless verbose is set. The service logger comes from the shared
// observability package, which always writes to stdout.
func NewCLILogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
