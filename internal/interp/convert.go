package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// toNumber coerces v to float64, following the traced language's
// loose-typing rules closely enough for arithmetic: numbers pass
// through, booleans become 0/1, null and empty/whitespace strings
// become 0, numeric strings parse, everything else (objects,
// undefined, unparsable strings) becomes NaN.
func toNumber(v Value) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nan()
		}
		return f
	case nullType:
		return 0
	default:
		return nan()
	}
}

func nan() float64 {
	var z float64
	return z / z
}

// DisplayString exposes toDisplayString to other packages (the
// stepping engine uses it to render a thrown primitive's
// exception_msg).
func DisplayString(v Value) string { return toDisplayString(v) }

// toDisplayString renders v the way print() and string concatenation
// show it: no quotes around strings, "undefined"/"null" for the two
// absent values, and a minimal object/array/function rendering good
// enough for stdout capture (the heap encoder, not this function, is
// what the trace actually uses to represent compound values).
func toDisplayString(v Value) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if s, ok := IsSpecialFloat(t); ok {
			return s
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case undefinedType:
		return "undefined"
	case nullType:
		return "null"
	case *Object:
		return displayObject(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func displayObject(o *Object) string {
	switch o.Kind {
	case KindFunction:
		name := o.Func.Name
		if name == "" {
			name = "(anonymous)"
		}
		return "function " + name + "()"
	case KindArray:
		parts := make([]string, len(o.Elems))
		for i, e := range o.Elems {
			parts[i] = toDisplayString(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		parts := make([]string, 0, len(o.Keys()))
		for _, k := range o.Keys() {
			v, _ := o.Get(k)
			parts = append(parts, k+": "+toDisplayString(v))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
}

// truthy is the traced language's boolean coercion for conditions.
func truthy(v Value) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0 && t == t // false for 0 and NaN
	case string:
		return t != ""
	case undefinedType, nullType:
		return false
	default:
		return true // objects, arrays, functions are always truthy
	}
}

// valuesEqual implements the language's equality operator. Kept
// strict (no cross-type coercion) rather than reproducing JS's full
// abstract-equality table: the traced programs this tool targets
// compare like-typed values, and strict equality keeps trace output
// deterministic and easy to reason about.
func valuesEqual(l, r Value) bool {
	switch lt := l.(type) {
	case float64:
		rt, ok := r.(float64)
		return ok && lt == rt
	case string:
		rt, ok := r.(string)
		return ok && lt == rt
	case bool:
		rt, ok := r.(bool)
		return ok && lt == rt
	case undefinedType:
		_, ok := r.(undefinedType)
		return ok
	case nullType:
		_, ok := r.(nullType)
		return ok
	case *Object:
		rt, ok := r.(*Object)
		return ok && lt == rt
	default:
		return false
	}
}

// newError builds a plain-object Error-like value: {message, name}.
// The traced language has no real Error class, just a convention the
// builtins and thrown values follow.
func newError(name, message string) *Object {
	o := NewPlainObject(nil)
	o.Set("name", name)
	o.Set("message", message)
	return o
}

func typeError(message string) *Object { return newError("TypeError", message) }
func referenceError(name string) *Object {
	return newError("ReferenceError", name+" is not defined")
}
