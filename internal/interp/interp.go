package interp

import (
	"go/token"
	"io"

	"github.com/cluo/opt-trace/internal/lang"
)

// BreakKind classifies a single break the interpreter reports to its
// Hook, mirroring the two kinds of debugger event spec §4.5 actually
// needs to distinguish: a line break and an exception break. The
// finer step_line/call/return split the trace ultimately records is
// derived by the caller (the stepping engine) from stack shape and
// AtReturn, per §4.5 step 6 — the interpreter only ever reports
// "line" or "exception".
type BreakKind int

const (
	BreakLine BreakKind = iota
	BreakException
)

// HookAction is the engine's decision about how to resume.
// ActionAbort is how the stepping engine enforces MAX_EXECUTED_LINES
// (§4.5 step 12): the interpreter unwinds immediately without
// executing anything further.
type HookAction int

const (
	ActionStepIn HookAction = iota
	ActionStepOut
	ActionAbort
)

// Break is everything the Hook needs to classify and encode one
// program step. Stack is ordered top-of-stack first, the order §4.5
// step 5 collects live frames in.
type Break struct {
	Kind      BreakKind
	Script    string
	Line, Col int
	Stack     []*Frame
	Exception Value
}

type Hook func(b Break) HookAction

// PositionResolver maps a node's source position to a 1-based
// line/column pair. internal/lang hands out go/token.Pos values; the
// interpreter treats them opaquely and leaves resolution to whoever
// holds the token.FileSet the parser produced.
type PositionResolver func(pos token.Pos) (line, col int)

// abortInstructionLimit unwinds the Go call stack when the hook
// requests ActionAbort. Recovered once, at the top of Run.
type abortInstructionLimit struct{}

// Interp is the tree-walking evaluator. One Interp runs exactly one
// program; construct a fresh one per trace.
type Interp struct {
	Global *Scope
	Stdout io.Writer
	Hook   Hook

	resolvePos PositionResolver
	stack      []*Frame // bottom of call stack first; last element is top
}

func New(stdout io.Writer) *Interp {
	it := &Interp{
		Global: NewScope(ScopeGlobal, nil),
		Stdout: stdout,
	}
	it.installBuiltins()
	return it
}

func (it *Interp) SetPositionResolver(r PositionResolver) { it.resolvePos = r }

func (it *Interp) top() *Frame {
	if len(it.stack) == 0 {
		return nil
	}
	return it.stack[len(it.stack)-1]
}

func (it *Interp) pushFrame(f *Frame) { it.stack = append(it.stack, f) }

func (it *Interp) popFrame() {
	it.stack = it.stack[:len(it.stack)-1]
}

// stackTopFirst snapshots the current call stack top-of-stack first.
func (it *Interp) stackTopFirst() []*Frame {
	out := make([]*Frame, len(it.stack))
	for i, f := range it.stack {
		out[len(it.stack)-1-i] = f
	}
	return out
}

func (it *Interp) position(n *lang.Node) (line, col int) {
	if it.resolvePos == nil || n == nil {
		return 0, 0
	}
	return it.resolvePos(n.Pos)
}

// fireLine reports a line break at n on the current top frame and
// relays the engine's decision. A nil Hook (used by unit tests that
// only want to evaluate, not trace) always steps in.
func (it *Interp) fireLine(n *lang.Node) HookAction {
	if it.Hook == nil {
		return ActionStepIn
	}
	f := it.top()
	line, col := it.position(n)
	action := it.Hook(Break{
		Kind:   BreakLine,
		Script: f.Script,
		Line:   line,
		Col:    col,
		Stack:  it.stackTopFirst(),
	})
	if action == ActionAbort {
		panic(abortInstructionLimit{})
	}
	return action
}

// fireException reports the single exception break for a throw (see
// §9: only the original throw site fires one, never each frame the
// throw subsequently unwinds through).
func (it *Interp) fireException(n *lang.Node, excVal Value) HookAction {
	if it.Hook == nil {
		return ActionStepIn
	}
	f := it.top()
	line, col := it.position(n)
	action := it.Hook(Break{
		Kind:      BreakException,
		Script:    f.Script,
		Line:      line,
		Col:       col,
		Stack:     it.stackTopFirst(),
		Exception: excVal,
	})
	if action == ActionAbort {
		panic(abortInstructionLimit{})
	}
	return action
}

// fireReturn reports the return break on the frame about to be
// popped. retVal is what the *trace* should show as __return__:
// for constructors this is always the receiver, per §3's Stack Entry
// rule, not whatever the constructor body literally returned.
func (it *Interp) fireReturn(n *lang.Node, retVal Value) HookAction {
	f := it.top()
	f.AtReturn = true
	f.ReturnValue = retVal
	if it.Hook == nil {
		return ActionStepIn
	}
	line, col := it.position(n)
	action := it.Hook(Break{
		Kind:   BreakLine,
		Script: f.Script,
		Line:   line,
		Col:    col,
		Stack:  it.stackTopFirst(),
	})
	if action == ActionAbort {
		panic(abortInstructionLimit{})
	}
	return action
}

// Run executes prog as the top-level module body. The outermost
// activation is pushed as a synthetic wrapper frame so the rest of
// the interpreter never special-cases "no current frame" — the
// stepping engine is the one that excludes it from stack_to_render
// (per the invariant in §3), via Frame.IsWrapper.
func (it *Interp) Run(prog *lang.Node) (err error) {
	wrapper := &Frame{Script: UserScript, FuncName: "<module>", Scope: it.Global, IsWrapper: true}
	it.pushFrame(wrapper)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortInstructionLimit); ok {
				return
			}
			panic(r)
		}
	}()
	sig := it.execBlockBody(prog.Child, it.Global)
	if sig.kind == flowThrow {
		// The exception break already fired at the throw (or implicit
		// reference-error) site; an uncaught exception ends the trace
		// right there; no further entries, not even a final return.
		return nil
	}
	it.fireReturn(prog, Undefined)
	it.popFrame()
	return nil
}
