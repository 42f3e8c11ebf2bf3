package otel

import (
	"os"
	"sync/atomic"
)

// tracing turns on per-message and per-key events in the TUI.
var tracing atomic.Bool

func init() {
	tracing.Store(os.Getenv("POKEDEX_TRACE") != "")
}

// TraceEnabled reports whether POKEDEX_TRACE was set at startup.
func TraceEnabled() bool {
	return tracing.Load()
}

func setTraceEnabled(v bool) {
	tracing.Store(v)
}
