// Package diag centralizes the non-fatal diagnostic sink used by the
// loader and renderer: ParseError, MissingReference and PixelOutOfRange
// are reported here and the offending construct is dropped, never
// propagated as a fatal error.
package diag

import (
	"fmt"
	"os"
	"sync/atomic"
)

type Kind string

const (
	ParseError      Kind = "parse error"
	MissingReference Kind = "missing reference"
	PixelOutOfRange Kind = "pixel out of range"
)

var count int64

// Warn logs a non-fatal diagnostic to stderr and bumps the running count.
// Nothing here ever panics or returns an error — callers are expected to
// skip the offending construct and keep going.
func Warn(kind Kind, format string, args ...any) {
	atomic.AddInt64(&count, 1)
	fmt.Fprintf(os.Stderr, "warning: %s: %s\n", kind, fmt.Sprintf(format, args...))
}

// Count returns the number of warnings emitted so far, mainly for tests
// and the CLI's end-of-run summary.
func Count() int64 {
	return atomic.LoadInt64(&count)
}
