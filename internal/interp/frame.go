package interp

import "github.com/cluo/opt-trace/internal/lang"

// UserScript is the canonical script name a debugger break is
// attributed to when it belongs to user code, per §4.1. Any frame with
// a different Script value is library/builtin code and is meant to be
// filtered by the stepping engine's user-code gate (§4.5 step 2).
const UserScript = "userscript"

// LibraryScript marks the lightweight frame pushed around a call into a
// native builtin (print, Array.push, ...). Builtins never execute user
// AST, so there is nothing to single-step inside one — but modeling the
// call as a (very short-lived) non-user frame, rather than simply not
// producing a frame at all, is what exercises the gate in §4.5 step 2
// instead of leaving it dead code.
const LibraryScript = "<builtin>"

// Frame is one call activation: the runtime-visible half of what the
// Identity Registry turns into a stable StackEntry. RawID is the
// "ephemeral, runtime-assigned" handle of spec §3 — see
// FuncData.acquireFrameID for how it gets recycled.
type Frame struct {
	Script        string
	RawID         uint64
	FuncName      string
	IsConstructor bool
	// IsWrapper marks the single synthetic top-level activation Run
	// pushes for module-level code. The stepping engine still counts
	// it (and gives it a canonical id) when classifying events, but
	// excludes it from stack_to_render entirely, per the invariant
	// that the rendered stack never includes the wrapper C1 introduces.
	IsWrapper   bool
	Receiver    *Object
	Scope       *Scope
	Node        *lang.Node
	AtReturn    bool
	ReturnValue Value
}
