package tracer

import "strings"

// preludeLines is the fixed line count C1's prelude adds, subtracted
// from every runtime-reported line number per §4.5 step 1. Any change
// to Wrap's prelude must update this constant (§9).
const preludeLines = 2

// Wrap implements C1: a two-line prelude (strict-mode pragma, then a
// debugger-break marker) followed by the user's source with trailing
// whitespace trimmed.
func Wrap(userSource string) string {
	trimmed := strings.TrimRight(userSource, " \t\r\n")
	return "\"use strict\";\ndebugger;\n" + trimmed
}
