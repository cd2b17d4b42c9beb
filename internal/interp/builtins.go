package interp

import "fmt"

// installBuiltins populates Global with the small set of builtins the
// traced language offers: print() for stdout (captured by C2 the same
// way any other process stdout write would be) and Error. Array
// methods are not globals; evalCall dispatches them through
// arrayMethod. All of these are reached through the same
// library-frame boundary (see callNativeBoundary), so none of them
// are "free" — every call is a real, steppable (if filtered) frame.
func (it *Interp) installBuiltins() {
	it.Global.Declare("print", NewFunction(&FuncData{
		Name:   "print",
		Native: builtinPrint,
	}, nil))
	it.Global.Declare("Error", NewFunction(&FuncData{
		Name:   "Error",
		Native: builtinError,
	}, nil))
}

// builtinError backs both `new Error(msg)` (this is the fresh
// instance construct() created) and a bare `Error(msg)` call (this is
// nil, so a standalone object is handed back instead).
func builtinError(it *Interp, this *Object, args []Value) (Value, Value) {
	msg := ""
	if len(args) > 0 {
		msg = toDisplayString(args[0])
	}
	target := this
	if target == nil {
		target = NewPlainObject(nil)
	}
	target.Set("name", "Error")
	target.Set("message", msg)
	return target, nil
}

func builtinPrint(it *Interp, this *Object, args []Value) (Value, Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = toDisplayString(a)
	}
	line := ""
	for i, p := range parts {
		if i > 0 {
			line += " "
		}
		line += p
	}
	fmt.Fprintln(it.Stdout, line)
	return Undefined, nil
}

// arrayMethod resolves a built-in Array method by name, or nil if
// name isn't one. Kept as a small explicit table rather than a full
// prototype-object so arrays don't need per-instance method lookups.
func arrayMethod(name string) func(it *Interp, this *Object, args []Value) (Value, Value) {
	switch name {
	case "push":
		return arrayPush
	case "pop":
		return arrayPop
	case "join":
		return arrayJoin
	case "indexOf":
		return arrayIndexOf
	default:
		return nil
	}
}

func arrayPush(it *Interp, this *Object, args []Value) (Value, Value) {
	this.Elems = append(this.Elems, args...)
	return float64(len(this.Elems)), nil
}

func arrayPop(it *Interp, this *Object, args []Value) (Value, Value) {
	if len(this.Elems) == 0 {
		return Undefined, nil
	}
	last := this.Elems[len(this.Elems)-1]
	this.Elems = this.Elems[:len(this.Elems)-1]
	return last, nil
}

func arrayJoin(it *Interp, this *Object, args []Value) (Value, Value) {
	sep := ","
	if len(args) > 0 {
		sep = toDisplayString(args[0])
	}
	out := ""
	for i, e := range this.Elems {
		if i > 0 {
			out += sep
		}
		out += toDisplayString(e)
	}
	return out, nil
}

func arrayIndexOf(it *Interp, this *Object, args []Value) (Value, Value) {
	if len(args) == 0 {
		return float64(-1), nil
	}
	target := args[0]
	for i, e := range this.Elems {
		if valuesEqual(e, target) {
			return float64(i), nil
		}
	}
	return float64(-1), nil
}
