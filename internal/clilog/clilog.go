// Package clilog sets up the colorized structured logger shared by the
// three command-line front ends, in place of the teacher's bare
// fmt.Fprintf(os.Stderr, ...) helpers.
package clilog

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup installs and returns a tint-backed slog.Logger on stderr. quiet
// raises the level from Debug to Warn, the logging equivalent of the
// teacher's -q flag.
func Setup(quiet bool) *slog.Logger {
	level := slog.LevelDebug
	if quiet {
		level = slog.LevelWarn
	}
	w := os.Stderr
	logger := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	}))
	slog.SetDefault(logger)
	return logger
}

// Warner returns a callback suitable for xv6fs.Image.OnWarning that logs
// through logger at warn level, tagging each message with the operation
// that raised it.
func Warner(logger *slog.Logger) func(op, msg string) {
	return func(op, msg string) {
		logger.Warn(msg, "op", op)
	}
}
