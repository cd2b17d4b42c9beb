package tracer

import (
	"fmt"

	"github.com/secureworks/errors"
)

// internalError marks a panic raised by assert as this package's own
// invariant violation (§7: "Internal invariant violation (assertion).
// Fatal; diagnostic to stderr; non-zero exit."), as opposed to a Go
// runtime panic we have no business recovering from.
type internalError struct{ err error }

func (e *internalError) Error() string { return e.err.Error() }
func (e *internalError) Unwrap() error { return e.err }

// assert panics with a stack-traced error when cond is false. Run
// recovers *internalError specifically and turns it into a returned
// error; any other panic is not ours and is re-raised, mirroring how
// yaegi's interpreter only filters panics it raised itself.
func assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	Logger.Print(msg)
	panic(&internalError{err: errors.NewWithStackTrace(msg)})
}
