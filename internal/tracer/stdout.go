package tracer

import (
	"context"
	"strings"

	"golang.org/x/sync/semaphore"
)

// StdoutCapture is C2: exclusive ownership of "process stdout" for
// the duration of one run, backed by an append-only buffer. A single
// Go process can still run multiple tracer.Run calls (tests do this
// routinely), so "exclusive control of the process stdout sink" is
// modeled as a weighted semaphore of size 1 rather than actually
// swapping os.Stdout — Acquire/Release give the same scoped-ownership
// guarantee §4.2 asks for without a global mutable file descriptor.
type StdoutCapture struct {
	buf      strings.Builder
	sem      *semaphore.Weighted
	acquired bool
}

func NewStdoutCapture() *StdoutCapture {
	return &StdoutCapture{sem: semaphore.NewWeighted(1)}
}

// Acquire blocks until this capture owns the sink.
func (c *StdoutCapture) Acquire(ctx context.Context) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.acquired = true
	return nil
}

// Release gives up ownership. Safe to call more than once.
func (c *StdoutCapture) Release() {
	if c.acquired {
		c.sem.Release(1)
		c.acquired = false
	}
}

// Write implements io.Writer so StdoutCapture can be used directly as
// an interp.Interp's Stdout.
func (c *StdoutCapture) Write(p []byte) (int, error) { return c.buf.Write(p) }

// Snapshot returns the buffer's contents so far without clearing it
// (§4.2: snapshot never clears).
func (c *StdoutCapture) Snapshot() string { return c.buf.String() }
