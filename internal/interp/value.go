// Package interp is a small tree-walking evaluator for the language
// parsed by internal/lang. It plays the role yaegi's CFG/bytecode
// machine plays for Go: it owns frames, scopes and values, and calls
// out to a single Hook at every point an external debugger would see a
// break, so the tracer package never has to know how values are
// represented internally.
package interp

import (
	"math"

	"github.com/cluo/opt-trace/internal/lang"
)

// Value is any runtime value: float64, string, bool, Undefined, Null,
// or *Object (for objects, arrays and functions — the three compound
// kinds the heap encoder distinguishes).
type Value interface{}

// undefinedType and nullType are singleton sentinel value kinds. They
// are distinct Go types (not nil) so type switches in the encoder can
// tell "undefined" from "null" from "no value at all".
type undefinedType struct{}
type nullType struct{}

func (undefinedType) String() string { return "undefined" }
func (nullType) String() string      { return "null" }

// Undefined and Null are the language's two absent-value singletons.
var (
	Undefined Value = undefinedType{}
	Null      Value = nullType{}
)

// IsUndefined and IsNull classify a Value.
func IsUndefined(v Value) bool { _, ok := v.(undefinedType); return ok }
func IsNull(v Value) bool      { _, ok := v.(nullType); return ok }

// IsSpecialFloat reports whether f is NaN or +/-Inf, the cases §3's
// SPECIAL_FLOAT encoding exists for.
func IsSpecialFloat(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "Infinity", true
	case math.IsInf(f, -1):
		return "-Infinity", true
	default:
		return "", false
	}
}

// ObjectKind distinguishes the three compound value shapes.
type ObjectKind int

const (
	KindPlainObject ObjectKind = iota
	KindArray
	KindFunction
)

// FuncData holds everything about one function value: its declaration
// (for user functions) or native implementation (for builtins), plus
// the small per-function free-list of raw frame ids used to simulate a
// host runtime recycling frame handles across repeated activations of
// the same function — the exact behavior the Identity Registry (C3)
// exists to canonicalize away.
type FuncData struct {
	Name       string
	Params     []string
	Body       *lang.Node
	Closure    *Scope
	SourceText string

	// Native implements a builtin. The second return is a thrown
	// value (any Value, not just an Error object) or nil for no throw.
	Native func(it *Interp, this *Object, args []Value) (Value, Value)

	freeFrameIDs []uint64
	nextFrameID  uint64
}

// acquireFrameID returns a raw frame id for a new activation, reusing
// one from the free list when available so repeated calls to the same
// function are handed the same raw id across non-overlapping
// activations — mirroring an optimizing runtime that recycles a call's
// stack-frame handle once it has returned.
func (fd *FuncData) acquireFrameID() uint64 {
	if n := len(fd.freeFrameIDs); n > 0 {
		id := fd.freeFrameIDs[n-1]
		fd.freeFrameIDs = fd.freeFrameIDs[:n-1]
		return id
	}
	fd.nextFrameID++
	return fd.nextFrameID
}

func (fd *FuncData) releaseFrameID(id uint64) {
	fd.freeFrameIDs = append(fd.freeFrameIDs, id)
}

// Object is the single heap-allocated compound value type: used for
// plain objects, arrays and functions alike, distinguished by Kind.
type Object struct {
	Kind  ObjectKind
	Proto *Object

	keys []string
	vals map[string]Value

	Elems []Value // valid when Kind == KindArray

	Func *FuncData // valid when Kind == KindFunction

	// id is the hidden, non-enumerable identity tag the Identity
	// Registry (C3) attaches on first encoding. Zero means untagged.
	// It is intentionally not part of keys/vals so it never surfaces
	// in enumeration, equality or pretty-printing.
	id uint64
}

func NewPlainObject(proto *Object) *Object {
	return &Object{Kind: KindPlainObject, Proto: proto, vals: map[string]Value{}}
}

func NewArray(elems []Value) *Object {
	return &Object{Kind: KindArray, Elems: elems, vals: map[string]Value{}}
}

func NewFunction(fd *FuncData, proto *Object) *Object {
	return &Object{Kind: KindFunction, Func: fd, Proto: proto, vals: map[string]Value{}}
}

// ID/SetID implement the hidden identity tag described above.
func (o *Object) ID() uint64      { return o.id }
func (o *Object) SetID(id uint64) { o.id = id }

// Set assigns a property, recording key order on first insertion.
func (o *Object) Set(key string, v Value) {
	if o.vals == nil {
		o.vals = map[string]Value{}
	}
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Get looks up an own property only (no prototype walk); callers that
// need prototype-chain lookup use GetChain.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// GetChain walks the prototype chain.
func (o *Object) GetChain(key string) (Value, bool) {
	for cur := o; cur != nil; cur = cur.Proto {
		if v, ok := cur.vals[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Keys returns this object's own property names in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) HasNonEmptyOwnProps() bool { return len(o.keys) > 0 }

// HasNonEmptyProtoChain reports whether o's own prototype chain (not o
// itself) carries at least one own property anywhere along it — used by
// the P1 function-prototype rule, which captures inheritance even when
// the immediate prototype object has no own properties of its own.
func (o *Object) HasNonEmptyProtoChain() bool {
	for p := o.Proto; p != nil; p = p.Proto {
		if len(p.keys) > 0 {
			return true
		}
	}
	return false
}
