// Package tracer assembles the Stepping Engine (C5) out of the
// Identity Registry (C3), the Heap/Value Encoder (C4), the Source
// Wrapper (C1) and the stdout capture (C2), driving internal/interp
// through its Hook the way a debugger-event listener drives a host
// runtime.
package tracer

// EncodedValue is the tagged-union JSON shape described in the data
// model: a bare number/string for primitives, or a 2/N-element
// []any{"TAG", ...} for everything else. Kept as `any` rather than a
// dedicated sum type because every shape here is already a leaf JSON
// value — wrapping it in a Go struct would only add a MarshalJSON
// indirection for no behavioral gain.
type EncodedValue = any

// HeapTable is the per-entry object ID -> encoding side table. Go's
// encoding/json sorts integer-like map keys by their string form
// before emitting them, which is exactly the deterministic ordering
// the idempotence property in §8 needs.
type HeapTable map[int]EncodedValue

// StackEntry is one live user frame, per §3.
type StackEntry struct {
	FuncName          string                  `json:"func_name"`
	FrameID           int                     `json:"frame_id"`
	IsHighlighted     bool                    `json:"is_highlighted"`
	IsParent          bool                    `json:"is_parent"`
	IsZombie          bool                    `json:"is_zombie"`
	ParentFrameIDList []int                   `json:"parent_frame_id_list"`
	UniqueHash        string                  `json:"unique_hash"`
	OrderedVarnames   []string                `json:"ordered_varnames"`
	EncodedLocals     map[string]EncodedValue `json:"encoded_locals"`
}

// TraceEntry is one record of the output sequence (§3).
type TraceEntry struct {
	Event          string                  `json:"event"`
	Line           int                     `json:"line"`
	Col            int                     `json:"col"`
	FuncName       string                  `json:"func_name,omitempty"`
	Stdout         string                  `json:"stdout"`
	Globals        map[string]EncodedValue `json:"globals"`
	OrderedGlobals []string                `json:"ordered_globals"`
	StackToRender  []StackEntry            `json:"stack_to_render"`
	Heap           HeapTable               `json:"heap"`
	ExceptionMsg   string                  `json:"exception_msg,omitempty"`
}

// Result is the top-level output schema of §6.
type Result struct {
	Code  string       `json:"code"`
	Trace []TraceEntry `json:"trace"`
}
