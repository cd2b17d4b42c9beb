package interp

import (
	"strings"
	"testing"

	"github.com/cluo/opt-trace/internal/lang"
)

func mustParse(t *testing.T, src string) *lang.Node {
	t.Helper()
	prog, _, err := lang.Parse(src, "t.js")
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestRunArithmeticGlobals(t *testing.T) {
	var out strings.Builder
	it := New(&out)
	prog := mustParse(t, "var x=1; var y=2; var z=x+y;")
	if err := it.Run(prog); err != nil {
		t.Fatal(err)
	}
	v, ok := it.Global.Lookup("z")
	if !ok || v.(float64) != 3 {
		t.Errorf("got z=%v, want 3", v)
	}
}

func TestRunFunctionCallReturn(t *testing.T) {
	var out strings.Builder
	it := New(&out)
	prog := mustParse(t, "function f(n){return n+1;} var r=f(41);")
	if err := it.Run(prog); err != nil {
		t.Fatal(err)
	}
	v, ok := it.Global.Lookup("r")
	if !ok || v.(float64) != 42 {
		t.Errorf("got r=%v, want 42", v)
	}
}

func TestRunPrintWritesStdout(t *testing.T) {
	var out strings.Builder
	it := New(&out)
	prog := mustParse(t, `print("hi", 1);`)
	if err := it.Run(prog); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "hi 1\n" {
		t.Errorf("got stdout %q, want %q", got, "hi 1\n")
	}
}

func TestRunArrayPushSelfReference(t *testing.T) {
	var out strings.Builder
	it := New(&out)
	prog := mustParse(t, "var a=[1,2]; a.push(a);")
	if err := it.Run(prog); err != nil {
		t.Fatal(err)
	}
	v, ok := it.Global.Lookup("a")
	if !ok {
		t.Fatal("expected global a")
	}
	arr := v.(*Object)
	if len(arr.Elems) != 3 || arr.Elems[2].(*Object) != arr {
		t.Errorf("got elems %+v, want [1 2 <self>]", arr.Elems)
	}
}

func TestRunConstructorSetsReceiverFields(t *testing.T) {
	var out strings.Builder
	it := New(&out)
	prog := mustParse(t, "function C(){this.x=1;} var o=new C();")
	if err := it.Run(prog); err != nil {
		t.Fatal(err)
	}
	v, ok := it.Global.Lookup("o")
	if !ok {
		t.Fatal("expected global o")
	}
	o := v.(*Object)
	x, ok := o.Get("x")
	if !ok || x.(float64) != 1 {
		t.Errorf("got o.x=%v, want 1", x)
	}
}

func TestHookAbortStopsExecution(t *testing.T) {
	var out strings.Builder
	it := New(&out)
	steps := 0
	it.Hook = func(b Break) HookAction {
		if b.Script != UserScript {
			return ActionStepOut
		}
		steps++
		if steps >= 2 {
			return ActionAbort
		}
		return ActionStepIn
	}
	prog := mustParse(t, "var x=1; var y=2; var z=3;")
	if err := it.Run(prog); err != nil {
		t.Fatal(err)
	}
	if _, ok := it.Global.Lookup("z"); ok {
		t.Error("z should not have been declared after abort")
	}
}

func TestUncaughtThrowFiresExceptionOnce(t *testing.T) {
	var out strings.Builder
	it := New(&out)
	exceptions := 0
	it.Hook = func(b Break) HookAction {
		if b.Kind == BreakException {
			exceptions++
		}
		if b.Script != UserScript {
			return ActionStepOut
		}
		return ActionStepIn
	}
	prog := mustParse(t, `throw "boom";`)
	if err := it.Run(prog); err != nil {
		t.Fatal(err)
	}
	if exceptions != 1 {
		t.Errorf("got %d exception breaks, want exactly 1", exceptions)
	}
}
