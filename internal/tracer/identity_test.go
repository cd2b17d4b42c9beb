package tracer

import (
	"testing"

	"github.com/cluo/opt-trace/internal/interp"
)

func TestFrameRegistryCanonicalizesRecycledRawID(t *testing.T) {
	reg := NewFrameRegistry()

	first := reg.Canonical(7)
	if reg.Canonical(7) != first {
		t.Errorf("same activation got two different canonical ids")
	}
	reg.NoteReturn(7)

	second := reg.Canonical(7)
	if second == first {
		t.Errorf("next activation of a recycled raw id reused the previous canonical id")
	}
}

func TestObjectRegistryReusesID(t *testing.T) {
	reg := NewObjectRegistry()
	o := interp.NewPlainObject(nil)
	id1 := reg.IDFor(o)
	id2 := reg.IDFor(o)
	if id1 != id2 {
		t.Errorf("got ids %d and %d for the same object, want equal", id1, id2)
	}
}
