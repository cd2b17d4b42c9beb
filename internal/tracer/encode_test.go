package tracer

import (
	"math"
	"testing"

	"github.com/cluo/opt-trace/internal/interp"
)

func TestEncodePrimitives(t *testing.T) {
	heap := HeapTable{}
	reg := NewObjectRegistry()
	if Encode(1.5, heap, reg) != 1.5 {
		t.Error("number did not encode to itself")
	}
	if Encode("hi", heap, reg) != "hi" {
		t.Error("string did not encode to itself")
	}
	got := Encode(interp.Undefined, heap, reg).([]any)
	if got[0] != "JS_SPECIAL_VAL" || got[1] != "undefined" {
		t.Errorf("got %+v, want JS_SPECIAL_VAL undefined", got)
	}
}

func TestEncodeSpecialFloat(t *testing.T) {
	heap := HeapTable{}
	reg := NewObjectRegistry()
	got := Encode(math.NaN(), heap, reg).([]any)
	if got[0] != "SPECIAL_FLOAT" || got[1] != "NaN" {
		t.Errorf("got %+v, want SPECIAL_FLOAT NaN", got)
	}
}

func TestEncodeObjectIdentityStable(t *testing.T) {
	heap := HeapTable{}
	reg := NewObjectRegistry()
	o := interp.NewPlainObject(nil)
	o.Set("a", 1.0)

	ref1 := Encode(o, heap, reg).([]any)
	ref2 := Encode(o, heap, reg).([]any)
	if ref1[1] != ref2[1] {
		t.Errorf("same object got two different ids: %v, %v", ref1[1], ref2[1])
	}
	if len(heap) != 1 {
		t.Errorf("got %d heap entries, want 1", len(heap))
	}
}

func TestEncodeCyclicObjectNoDanglingRef(t *testing.T) {
	heap := HeapTable{}
	reg := NewObjectRegistry()
	o := interp.NewPlainObject(nil)
	o.Set("self", o)

	ref := Encode(o, heap, reg).([]any)
	id := ref[1].(int)
	encoded, ok := heap[id]
	if !ok {
		t.Fatalf("heap missing entry for id %d", id)
	}
	pairs := encoded.([]any)[2:]
	if len(pairs) != 1 {
		t.Fatalf("got %d properties, want 1", len(pairs))
	}
	pair := pairs[0].([]any)
	selfRef := pair[1].([]any)
	if selfRef[0] != "REF" || selfRef[1] != id {
		t.Errorf("got self property %+v, want [REF %d]", pair, id)
	}
}

func TestEncodeFunctionPrototypeNotDuplicated(t *testing.T) {
	heap := HeapTable{}
	reg := NewObjectRegistry()
	fd := &interp.FuncData{Name: "f", SourceText: "(){\n  return 1;\n}"}
	fn := interp.NewFunction(fd, nil)
	proto := interp.NewPlainObject(nil)
	proto.Set("shared", 1.0)
	fn.Set("prototype", proto)

	encoded := encodeFunction(fn, heap, reg).([]any)
	if encoded[0] != "JS_FUNCTION" || encoded[1] != "f" {
		t.Fatalf("got %+v, want JS_FUNCTION f ...", encoded)
	}
	pairs, ok := encoded[3].([]any)
	if !ok {
		t.Fatalf("got props field %+v, want a non-nil list", encoded[3])
	}
	count := 0
	for _, p := range pairs {
		if p.([]any)[0] == "prototype" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("got %d prototype entries, want exactly 1", count)
	}
}

func TestFixupIndentation(t *testing.T) {
	got := fixupIndentation("(n) {\n  return n;\n  }")
	if got != "  (n) {\n  return n;\n  }" {
		t.Errorf("got %q", got)
	}
	unchanged := "(n) { return n; }"
	if fixupIndentation(unchanged) != unchanged {
		t.Error("fixupIndentation should be a no-op when the last line isn't a bare '}'")
	}
}
