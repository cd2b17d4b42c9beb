package tracer

import (
	"fmt"

	"github.com/cluo/opt-trace/internal/interp"
)

// FrameRegistry is the frame half of the Identity Registry (C3): it
// canonicalizes a runtime-recycled raw frame id into a small integer
// that is stable for exactly one activation of a function and changes
// on the next one, per §4.3.
type FrameRegistry struct {
	callCount map[uint64]int
	canonical map[string]int
	next      int
}

func NewFrameRegistry() *FrameRegistry {
	return &FrameRegistry{callCount: map[uint64]int{}, canonical: map[string]int{}}
}

func canonicalKey(raw uint64, n int) string {
	if n >= 1 {
		return fmt.Sprintf("%d_%d", raw, n)
	}
	return fmt.Sprintf("%d", raw)
}

// Canonical returns the canonical frame id for raw's current
// activation, allocating a fresh one the first time this (raw,
// activation-count) pair is seen.
func (r *FrameRegistry) Canonical(raw uint64) int {
	key := canonicalKey(raw, r.callCount[raw])
	if id, ok := r.canonical[key]; ok {
		return id
	}
	r.next++
	r.canonical[key] = r.next
	return r.next
}

// NoteReturn bumps raw's activation counter. Must be called only
// after the current trace entry has already been built (§9: the
// just-returned frame keeps its canonical id for its own return
// entry).
func (r *FrameRegistry) NoteReturn(raw uint64) {
	r.callCount[raw]++
}

// ObjectRegistry is the object half of the Identity Registry: it
// hands out a fresh positive integer the first time a compound value
// is encoded and reuses it afterward, storing the tag on the object
// itself (interp.Object.id) so identity survives independent of this
// registry's own lifetime.
type ObjectRegistry struct {
	next int
}

func NewObjectRegistry() *ObjectRegistry { return &ObjectRegistry{} }

func (r *ObjectRegistry) IDFor(o *interp.Object) int {
	if id := o.ID(); id != 0 {
		return int(id)
	}
	r.next++
	o.SetID(uint64(r.next))
	return r.next
}
