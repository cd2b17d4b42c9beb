package tracer

import (
	"fmt"

	"github.com/cluo/opt-trace/internal/interp"
)

// Stepper is C5: the debugger-event listener. One Stepper lives for
// exactly one run; it is built by Run and wired in as the Interp's
// Hook.
type Stepper struct {
	frameReg *FrameRegistry
	objReg   *ObjectRegistry
	stdout   *StdoutCapture
	ignore   map[string]bool
	maxLines int

	trace     []TraceEntry
	prevStack []int
	aborted   bool
}

func newStepper(stdout *StdoutCapture, ignore map[string]bool, maxLines int) *Stepper {
	return &Stepper{
		frameReg: NewFrameRegistry(),
		objReg:   NewObjectRegistry(),
		stdout:   stdout,
		ignore:   ignore,
		maxLines: maxLines,
	}
}

func (s *Stepper) appendEntry(e TraceEntry) { s.trace = append(s.trace, e) }

// Hook implements interp.Hook, running the per-event procedure of
// §4.5 steps 1-12.
func (s *Stepper) Hook(b interp.Break) interp.HookAction {
	line := b.Line - preludeLines
	col := b.Col

	// Step 2: user-code gate.
	if b.Script != interp.UserScript {
		if b.Kind == interp.BreakException && len(s.trace) > 0 {
			prev := s.trace[len(s.trace)-1]
			s.appendEntry(TraceEntry{
				Event:          "exception",
				Line:           prev.Line,
				Col:            prev.Col,
				ExceptionMsg:   exceptionMessage(b.Exception),
				Stdout:         s.stdout.Snapshot(),
				Globals:        map[string]EncodedValue{},
				OrderedGlobals: []string{},
				StackToRender:  []StackEntry{},
				Heap:           HeapTable{},
			})
		}
		return interp.ActionStepOut
	}

	// Step 3: synthetic debugger marker. Its stack (the wrapper alone)
	// becomes the baseline the first recorded entry is classified
	// against, so a call made before any top-level statement has
	// finished still shows up as a "call".
	if line == 0 {
		s.prevStack = []int{}
		for _, f := range b.Stack {
			if f.Script == interp.UserScript {
				s.prevStack = append(s.prevStack, s.frameReg.Canonical(f.RawID))
			}
		}
		return interp.ActionStepIn
	}

	// Step 4: fresh heap table for this entry.
	heap := HeapTable{}

	// Step 5: live user frames, top-of-stack first. The synthetic
	// wrapper activation counts as a user frame here (it shares the
	// user script) — it is excluded later, only when rendering
	// stack_to_render (step 10), which is what lets the trailing
	// top-level "return" collapse to an empty stack for the Finalizer
	// to drop.
	userFrames := make([]*interp.Frame, 0, len(b.Stack))
	for _, f := range b.Stack {
		if f.Script == interp.UserScript {
			userFrames = append(userFrames, f)
		}
	}
	if len(userFrames) == 0 {
		return interp.ActionStepIn
	}

	// Step 6: classify.
	curStack := make([]int, len(userFrames))
	for i, f := range userFrames {
		curStack[i] = s.frameReg.Canonical(f.RawID)
	}
	top := userFrames[0]

	eventType := "step_line"
	if s.prevStack != nil && isCallTransition(s.prevStack, curStack) {
		eventType = "call"
	}
	if top.AtReturn {
		eventType = "return"
	}
	if b.Kind == interp.BreakException {
		eventType = "exception"
	}

	// Step 7: return cosmetics. §9 open question 1: when the previous
	// entry's top frame doesn't match the frame that's returning, the
	// rewrite is skipped and the mismatch is flagged to stderr rather
	// than silently producing a line number that doesn't belong to
	// this frame.
	if eventType == "return" && len(s.trace) > 0 {
		prev := s.trace[len(s.trace)-1]
		if n := len(prev.StackToRender); n > 0 {
			if prev.StackToRender[n-1].FrameID == curStack[0] {
				line = prev.Line
			} else {
				Logger.Printf("return cosmetics: previous entry frame_id %d does not match returning frame_id %d",
					prev.StackToRender[n-1].FrameID, curStack[0])
			}
		}
	}

	entry := TraceEntry{
		Event:    eventType,
		Line:     line,
		Col:      col,
		FuncName: top.FuncName,
		Stdout:   s.stdout.Snapshot(),
		Heap:     heap,
	}
	if b.Kind == interp.BreakException {
		entry.ExceptionMsg = exceptionMessage(b.Exception)
	}

	// Step 9: globals.
	entry.Globals, entry.OrderedGlobals = s.collectGlobals(top, heap)

	// Step 10: per-frame locals.
	entry.StackToRender = s.buildStackToRender(userFrames, curStack, heap)

	s.appendEntry(entry)

	// Step 11: frame-return accounting, after the entry is built.
	if top.AtReturn {
		s.frameReg.NoteReturn(top.RawID)
	}
	s.prevStack = curStack

	// Step 12: step budget.
	if len(s.trace) >= s.maxLines {
		s.appendEntry(TraceEntry{
			Event:        "instruction_limit_reached",
			ExceptionMsg: fmt.Sprintf("(stopped after %d steps to prevent possible infinite loop)", s.maxLines),
		})
		s.aborted = true
		return interp.ActionAbort
	}

	if eventType == "exception" {
		return interp.ActionStepOut
	}
	return interp.ActionStepIn
}

func isCallTransition(prev, cur []int) bool {
	if len(cur) != len(prev)+1 {
		return false
	}
	for i, id := range prev {
		if cur[i+1] != id {
			return false
		}
	}
	return true
}

func (s *Stepper) collectGlobals(top *interp.Frame, heap HeapTable) (map[string]EncodedValue, []string) {
	globals := map[string]EncodedValue{}
	seen := map[string]bool{}
	var ordered []string
	for sc := top.Scope; sc != nil; sc = sc.Parent {
		if sc.Kind != interp.ScopeGlobal && sc.Kind != interp.ScopeCatch {
			continue
		}
		for _, name := range sc.OwnKeys() {
			if s.ignore[name] {
				continue
			}
			assert(!seen[name], "duplicate global name %q", name)
			seen[name] = true
			v, _ := sc.OwnValue(name)
			globals[name] = Encode(v, heap, s.objReg)
			ordered = append(ordered, name)
		}
	}
	if ordered == nil {
		ordered = []string{}
	}
	return globals, ordered
}

// buildStackToRender implements §4.5 step 10, producing entries
// bottom-of-stack first (userFrames is top-first, so this walks it
// backward).
func (s *Stepper) buildStackToRender(userFrames []*interp.Frame, curStack []int, heap HeapTable) []StackEntry {
	result := make([]StackEntry, 0, len(userFrames))
	for i := len(userFrames) - 1; i >= 0; i-- {
		f := userFrames[i]
		if f.IsWrapper {
			continue
		}
		funcName := f.FuncName
		if f.IsConstructor {
			funcName += " (constructor)"
		}

		locals := map[string]EncodedValue{}
		var ordered []string
		addLocal := func(name string, v interp.Value) {
			locals[name] = Encode(v, heap, s.objReg)
			ordered = append(ordered, name)
		}

		if f.Receiver != nil && f.Receiver.Proto != nil {
			addLocal("this", f.Receiver)
		}

		parentN := 0
		for sc := f.Scope; sc != nil; sc = sc.Parent {
			kind := sc.Kind
			if kind == interp.ScopeLocal && sc != f.Scope {
				// An enclosing function's activation scope, reached
				// through the closure chain: inlined like a closure.
				kind = interp.ScopeClosure
			}
			switch kind {
			case interp.ScopeLocal, interp.ScopeCatch:
				for _, name := range sc.OwnKeys() {
					if name == "this" {
						continue
					}
					v, _ := sc.OwnValue(name)
					addLocal(name, v)
				}
			case interp.ScopeClosure, interp.ScopeWith:
				parentN++
				prefix := "parent:"
				if parentN >= 2 {
					prefix = fmt.Sprintf("parent%d:", parentN)
				}
				for _, name := range sc.OwnKeys() {
					if name == "this" {
						continue
					}
					v, _ := sc.OwnValue(name)
					addLocal(prefix+name, v)
				}
			case interp.ScopeGlobal:
				// already captured by collectGlobals
			}
		}

		if f.AtReturn {
			addLocal("__return__", f.ReturnValue)
		}
		if ordered == nil {
			ordered = []string{}
		}

		result = append(result, StackEntry{
			FuncName:          funcName,
			FrameID:           curStack[i],
			IsHighlighted:     i == 0,
			IsParent:          false,
			IsZombie:          false,
			ParentFrameIDList: []int{},
			UniqueHash:        fmt.Sprintf("%s_f%d", funcName, curStack[i]),
			OrderedVarnames:   ordered,
			EncodedLocals:     locals,
		})
	}
	return result
}

// exceptionMessage renders a thrown value's exception_msg: Error-like
// objects get their "name: message" form, anything else falls back
// to a plain display string.
func exceptionMessage(v interp.Value) string {
	if o, ok := v.(*interp.Object); ok {
		if s := customString(o); s != "" {
			return s
		}
	}
	return interp.DisplayString(v)
}
