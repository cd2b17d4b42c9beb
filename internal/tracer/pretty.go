package tracer

import (
	"fmt"
	"strings"
)

// WritePretty renders a Result as the human-readable form behind
// --emit-pretty-to-stdout: a header line per trace entry followed by
// indented detail lines, with globals and each frame's locals in the
// order they were first bound rather than map-iteration order, so two
// runs of the same program print identically. Frames are listed top of
// stack first.
func WritePretty(w *strings.Builder, r *Result) {
	for i, e := range r.Trace {
		fmt.Fprintf(w, "[%d] %s line=%d col=%d", i, e.Event, e.Line, e.Col)
		if e.FuncName != "" {
			fmt.Fprintf(w, " func=%s", e.FuncName)
		}
		w.WriteString("\n")

		if e.ExceptionMsg != "" {
			fmt.Fprintf(w, "    exception: %s\n", e.ExceptionMsg)
		}
		if e.Stdout != "" {
			fmt.Fprintf(w, "    stdout: %q\n", e.Stdout)
		}

		if len(e.OrderedGlobals) > 0 {
			w.WriteString("    globals:\n")
			for _, name := range e.OrderedGlobals {
				fmt.Fprintf(w, "      %s = %v\n", name, e.Globals[name])
			}
		}

		for fi := len(e.StackToRender) - 1; fi >= 0; fi-- {
			f := e.StackToRender[fi]
			fmt.Fprintf(w, "    #%d %s (frame %d)\n", fi, f.FuncName, f.FrameID)
			for _, name := range f.OrderedVarnames {
				fmt.Fprintf(w, "        %s = %v\n", name, f.EncodedLocals[name])
			}
		}
	}
}

// PrettyString is the string-returning convenience form of WritePretty.
func PrettyString(r *Result) string {
	var sb strings.Builder
	WritePretty(&sb, r)
	return sb.String()
}
