package tracer

import (
	"strconv"
	"strings"

	"github.com/cluo/opt-trace/internal/interp"
)

// Encode implements the C4 recursive encoder: `encode(v) -> EncodedValue`
// with the side effect of populating heap, per §4.4.
func Encode(v interp.Value, heap HeapTable, objReg *ObjectRegistry) EncodedValue {
	switch t := v.(type) {
	case float64:
		if s, ok := interp.IsSpecialFloat(t); ok {
			return []any{"SPECIAL_FLOAT", s}
		}
		return t
	case string:
		return t
	case bool:
		return []any{"JS_SPECIAL_VAL", strconv.FormatBool(t)}
	case *interp.Object:
		return encodeObject(t, heap, objReg)
	default:
		if interp.IsUndefined(v) {
			return []any{"JS_SPECIAL_VAL", "undefined"}
		}
		if interp.IsNull(v) {
			return []any{"JS_SPECIAL_VAL", "null"}
		}
		return []any{"JS_SPECIAL_VAL", "undefined"}
	}
}

// encodeObject implements the compound-value rules P1-P4 of §4.4: id
// assignment, cycle detection via placeholder-before-recurse, then
// dispatch by runtime kind.
func encodeObject(o *interp.Object, heap HeapTable, objReg *ObjectRegistry) EncodedValue {
	id := objReg.IDFor(o)
	ref := []any{"REF", id}
	if _, exists := heap[id]; exists {
		return ref
	}
	heap[id] = []any{} // placeholder so a cycle reached while recursing finds a key present
	var encoded EncodedValue
	switch o.Kind {
	case interp.KindFunction:
		encoded = encodeFunction(o, heap, objReg)
	case interp.KindArray:
		encoded = encodeArray(o, heap, objReg)
	default:
		encoded = encodeInstance(o, heap, objReg)
	}
	heap[id] = encoded
	return ref
}

// encodeFunction is P1. The prototype pair, when emitted, takes the
// first slot and is not duplicated by the general own-property walk.
func encodeFunction(o *interp.Object, heap HeapTable, objReg *ObjectRegistry) EncodedValue {
	var pairs []any
	if protoVal, ok := o.Get("prototype"); ok {
		if protoObj, ok2 := protoVal.(*interp.Object); ok2 {
			if protoObj.HasNonEmptyOwnProps() || protoObj.HasNonEmptyProtoChain() {
				pairs = append(pairs, []any{"prototype", Encode(protoObj, heap, objReg)})
			}
		}
	}
	for _, k := range o.Keys() {
		if k == "prototype" {
			continue
		}
		v, _ := o.Get(k)
		pairs = append(pairs, []any{k, Encode(v, heap, objReg)})
	}
	var propsField any
	if len(pairs) > 0 {
		propsField = pairs
	}
	body := fixupIndentation(o.Func.SourceText)
	return []any{"JS_FUNCTION", o.Func.Name, body, propsField, nil}
}

// encodeArray is P2.
func encodeArray(o *interp.Object, heap HeapTable, objReg *ObjectRegistry) EncodedValue {
	out := []any{"LIST"}
	for _, e := range o.Elems {
		out = append(out, Encode(e, heap, objReg))
	}
	return out
}

// encodeInstance is P3: a custom pretty string short-circuits to
// INSTANCE_PPRINT, otherwise own properties are listed in insertion
// order with an optional trailing __proto__ pair.
func encodeInstance(o *interp.Object, heap HeapTable, objReg *ObjectRegistry) EncodedValue {
	if s := customString(o); s != "" && s != "[object Object]" {
		return []any{"INSTANCE_PPRINT", "object", s}
	}
	out := []any{"INSTANCE", ""}
	for _, k := range o.Keys() {
		v, _ := o.Get(k)
		out = append(out, []any{Encode(k, heap, objReg), Encode(v, heap, objReg)})
	}
	if o.Proto != nil && o.Proto.HasNonEmptyOwnProps() {
		out = append(out, []any{"__proto__", Encode(o.Proto, heap, objReg)})
	}
	return out
}

// customString gives Error-shaped objects (name+message, the
// convention builtins.go's newError/builtinError follow) a readable
// one-line form instead of a raw property dump.
func customString(o *interp.Object) string {
	nameV, hasName := o.Get("name")
	msgV, hasMsg := o.Get("message")
	if !hasName || !hasMsg {
		return ""
	}
	name, _ := nameV.(string)
	msg, _ := msgV.(string)
	if name == "" {
		return ""
	}
	return name + ": " + msg
}

// fixupIndentation implements P1's indentation fix-up: if the
// function body's last line is exactly "}" (possibly indented), that
// line's leading whitespace is prepended to the whole body so the
// first line lines up with the closing brace.
func fixupIndentation(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) == 0 {
		return body
	}
	last := lines[len(lines)-1]
	trimmed := strings.TrimLeft(last, " \t")
	if trimmed != "}" {
		return body
	}
	indent := last[:len(last)-len(trimmed)]
	if indent == "" {
		return body
	}
	return indent + body
}
