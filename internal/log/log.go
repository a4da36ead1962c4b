// Package log prints progress messages for splitmap, with an opt-in verbose
// level for per-call and per-worker detail.
package log

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

var (
	verbose atomic.Bool
	std     = log.New(os.Stderr, "", log.LstdFlags)
)

// EnableVerbose enables the printing of verbose logs.
func EnableVerbose() {
	verbose.Store(true)
}

// Verbose reports whether verbose logging is enabled.
func Verbose() bool {
	return verbose.Load()
}

// SetOutput redirects all logs to w.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Printf logs regardless of whether verbose logging is enabled.
func Printf(format string, v ...any) {
	std.Printf(format, v...)
}

// Verbosef logs only if verbose logging is enabled.
func Verbosef(format string, v ...any) {
	if verbose.Load() {
		std.Printf(format, v...)
	}
}
