// Package logging configures the console logger used by the pokedex CLI.
//
// The TUI writes structured events through internal/otel; this package is
// for human-facing diagnostics on stderr from the headless subcommands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options controls handler selection.
type Options struct {
	Writer io.Writer // defaults to os.Stderr
	Level  string    // debug, info, warn, error
	JSON   bool      // machine-readable output
	Color  bool      // tint colors; ignored when JSON is set
}

// ParseLevel maps a level name to a slog.Level. Unknown names are an error.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New builds a slog.Logger. Text output goes through tint so it stays
// readable in a terminal.
func New(opts Options) (*slog.Logger, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    !opts.Color,
		})
	}
	return slog.New(handler), nil
}

// IsTerminal reports whether f looks like an interactive terminal.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Err is the attribute key used for errors, matching tint's highlighting.
func Err(err error) slog.Attr {
	return tint.Err(err)
}
