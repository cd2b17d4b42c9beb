package interp

import "github.com/cluo/opt-trace/internal/lang"

// evalExpr evaluates n in scope. The returned signal is always
// flowNone or flowThrow: expressions cannot themselves produce
// return/break/continue, but a nested call can throw, and that
// propagates up through every enclosing expression the same way a Go
// error would.
func (it *Interp) evalExpr(n *lang.Node, scope *Scope) (Value, signal) {
	switch n.Kind {
	case lang.KindNumberLit:
		return n.Num, noSignal
	case lang.KindStringLit:
		return n.Str, noSignal
	case lang.KindBoolLit:
		return n.Bool, noSignal
	case lang.KindNullLit:
		return Null, noSignal
	case lang.KindUndefinedLit:
		return Undefined, noSignal
	case lang.KindThisExpr:
		if v, ok := scope.Lookup("this"); ok {
			return v, noSignal
		}
		return Undefined, noSignal

	case lang.KindIdent:
		if v, ok := scope.Lookup(n.Name); ok {
			return v, noSignal
		}
		return Undefined, it.throwHere(n, referenceError(n.Name))

	case lang.KindArrayLit:
		elems := make([]Value, 0, len(n.Child))
		for _, c := range n.Child {
			v, sig := it.evalExpr(c, scope)
			if sig.kind == flowThrow {
				return Undefined, sig
			}
			elems = append(elems, v)
		}
		return NewArray(elems), noSignal

	case lang.KindObjectLit:
		obj := NewPlainObject(nil)
		for _, entry := range n.Child {
			v, sig := it.evalExpr(entry.Child[0], scope)
			if sig.kind == flowThrow {
				return Undefined, sig
			}
			obj.Set(entry.Name, v)
		}
		return obj, noSignal

	case lang.KindFuncLit:
		fd := &FuncData{Name: n.Name, Params: n.Params, Body: n.Body, Closure: scope, SourceText: n.Source}
		return NewFunction(fd, nil), noSignal

	case lang.KindMemberExpr:
		obj, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		return it.getMember(obj, n.Name), noSignal

	case lang.KindIndexExpr:
		obj, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		idx, sig := it.evalExpr(n.Child[1], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		return it.getIndex(obj, idx), noSignal

	case lang.KindCallExpr:
		return it.evalCall(n, scope)

	case lang.KindNewExpr:
		calleeVal, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		args, sig := it.evalArgs(n.Child[1:], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		return it.construct(calleeVal, args, n)

	case lang.KindUnaryExpr:
		v, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		if n.Op == "!" {
			return !truthy(v), noSignal
		}
		return -toNumber(v), noSignal

	case lang.KindLogicalExpr:
		l, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		if n.Op == "&&" {
			if !truthy(l) {
				return l, noSignal
			}
			return it.evalExpr(n.Child[1], scope)
		}
		if truthy(l) {
			return l, noSignal
		}
		return it.evalExpr(n.Child[1], scope)

	case lang.KindBinaryExpr:
		l, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		r, sig := it.evalExpr(n.Child[1], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		return applyBinary(n.Op, l, r), noSignal

	case lang.KindAssignExpr:
		rhs, sig := it.evalExpr(n.Child[1], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		sig = it.assignTo(n.Child[0], rhs, scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		return rhs, noSignal

	default:
		return Undefined, noSignal
	}
}

func (it *Interp) throwHere(n *lang.Node, v Value) signal {
	it.fireException(n, v)
	return signal{kind: flowThrow, value: v}
}

func (it *Interp) evalArgs(nodes []*lang.Node, scope *Scope) ([]Value, signal) {
	out := make([]Value, 0, len(nodes))
	for _, c := range nodes {
		v, sig := it.evalExpr(c, scope)
		if sig.kind == flowThrow {
			return nil, sig
		}
		out = append(out, v)
	}
	return out, noSignal
}

func (it *Interp) assignTo(target *lang.Node, v Value, scope *Scope) signal {
	switch target.Kind {
	case lang.KindIdent:
		scope.Assign(target.Name, v)
		return noSignal
	case lang.KindMemberExpr:
		obj, sig := it.evalExpr(target.Child[0], scope)
		if sig.kind == flowThrow {
			return sig
		}
		o, ok := obj.(*Object)
		if !ok {
			return it.throwHere(target, typeError("cannot set property of non-object"))
		}
		o.Set(target.Name, v)
		return noSignal
	case lang.KindIndexExpr:
		obj, sig := it.evalExpr(target.Child[0], scope)
		if sig.kind == flowThrow {
			return sig
		}
		idx, sig := it.evalExpr(target.Child[1], scope)
		if sig.kind == flowThrow {
			return sig
		}
		o, ok := obj.(*Object)
		if !ok {
			return it.throwHere(target, typeError("cannot set index of non-object"))
		}
		if o.Kind == KindArray {
			i := int(toNumber(idx))
			for i >= len(o.Elems) {
				o.Elems = append(o.Elems, Undefined)
			}
			if i >= 0 {
				o.Elems[i] = v
			}
			return noSignal
		}
		o.Set(toDisplayString(idx), v)
		return noSignal
	default:
		return it.throwHere(target, typeError("invalid assignment target"))
	}
}

func (it *Interp) getMember(obj Value, name string) Value {
	if o, ok := obj.(*Object); ok {
		if o.Kind == KindArray && name == "length" {
			return float64(len(o.Elems))
		}
		if v, ok := o.GetChain(name); ok {
			return v
		}
		return Undefined
	}
	if s, ok := obj.(string); ok && name == "length" {
		return float64(len(s))
	}
	return Undefined
}

func (it *Interp) getIndex(obj, idx Value) Value {
	if o, ok := obj.(*Object); ok {
		if o.Kind == KindArray {
			i := int(toNumber(idx))
			if i < 0 || i >= len(o.Elems) {
				return Undefined
			}
			return o.Elems[i]
		}
		if v, ok := o.GetChain(toDisplayString(idx)); ok {
			return v
		}
		return Undefined
	}
	if s, ok := obj.(string); ok {
		i := int(toNumber(idx))
		if i < 0 || i >= len(s) {
			return Undefined
		}
		return string(s[i])
	}
	return Undefined
}

// evalCall handles both plain calls (foo(args)) and method calls
// (obj.foo(args)), dispatching member calls to a built-in array
// method table before falling back to a resolved function value on
// the object's own/prototype chain.
func (it *Interp) evalCall(n *lang.Node, scope *Scope) (Value, signal) {
	calleeNode := n.Child[0]
	argNodes := n.Child[1:]

	if calleeNode.Kind == lang.KindMemberExpr {
		recv, sig := it.evalExpr(calleeNode.Child[0], scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		if recvObj, ok := recv.(*Object); ok && recvObj.Kind == KindArray {
			if m := arrayMethod(calleeNode.Name); m != nil {
				args, sig := it.evalArgs(argNodes, scope)
				if sig.kind == flowThrow {
					return Undefined, sig
				}
				return it.callNativeBoundary(calleeNode.Name, n, recvObj, args, m)
			}
		}
		fnVal := it.getMember(recv, calleeNode.Name)
		args, sig := it.evalArgs(argNodes, scope)
		if sig.kind == flowThrow {
			return Undefined, sig
		}
		var this *Object
		if o, ok := recv.(*Object); ok {
			this = o
		}
		return it.call(fnVal, this, args, n, false)
	}

	fnVal, sig := it.evalExpr(calleeNode, scope)
	if sig.kind == flowThrow {
		return Undefined, sig
	}
	args, sig := it.evalArgs(argNodes, scope)
	if sig.kind == flowThrow {
		return Undefined, sig
	}
	return it.call(fnVal, nil, args, n, false)
}

// callNativeBoundary runs a builtin array method through the
// same library-frame boundary a FuncData.Native call goes through
// (see call()), so these methods exercise the stepping engine's
// user-code gate exactly like print() does rather than bypassing it.
func (it *Interp) callNativeBoundary(name string, n *lang.Node, this *Object, args []Value, fn func(it *Interp, this *Object, args []Value) (Value, Value)) (Value, signal) {
	libFrame := &Frame{Script: LibraryScript, FuncName: name}
	it.pushFrame(libFrame)
	it.fireLine(n)
	result, thrown := fn(it, this, args)
	if thrown != nil {
		// Fire with the library frame still on top, so the Hook sees
		// Script != UserScript and attributes the break to the call
		// site rather than a line inside the library boundary.
		sig := it.throwHere(n, thrown)
		it.popFrame()
		return Undefined, sig
	}
	it.popFrame()
	return result, noSignal
}

// call invokes a function value, user-defined or native. isNew
// indicates a `new` expression is constructing, which marks the frame
// as a constructor call and makes the trace's __return__ show the
// receiver (per §3); the receiver itself has already been set up by
// construct() before this runs.
func (it *Interp) call(calleeVal Value, this *Object, args []Value, callNode *lang.Node, isNew bool) (Value, signal) {
	fnObj, ok := calleeVal.(*Object)
	if !ok || fnObj.Kind != KindFunction {
		return Undefined, it.throwHere(callNode, typeError("value is not a function"))
	}
	fd := fnObj.Func

	if fd.Native != nil {
		return it.callNativeBoundary(fd.Name, callNode, this, args, fd.Native)
	}

	rawID := fd.acquireFrameID()
	localScope := NewScope(ScopeLocal, fd.Closure)
	for i, p := range fd.Params {
		av := Value(Undefined)
		if i < len(args) {
			av = args[i]
		}
		localScope.Declare(p, av)
	}
	localScope.Declare("this", this)

	frame := &Frame{
		Script:        UserScript,
		RawID:         rawID,
		FuncName:      fd.Name,
		IsConstructor: isNew,
		Receiver:      this,
		Scope:         localScope,
		Node:          fd.Body,
	} // Node records the function body so later stages can recover source info
	it.pushFrame(frame)

	sig := it.execBlockBody(fd.Body.Child, localScope)

	if sig.kind == flowThrow {
		// The raw id is not recycled here: no return break fires for an
		// activation unwound by a throw, so the Identity Registry never
		// bumps its activation count for it and would otherwise hand a
		// later activation the same canonical frame id.
		it.popFrame()
		return Undefined, sig
	}

	retVal := Value(Undefined)
	if sig.kind == flowReturn {
		retVal = sig.value
	}
	traceRet := retVal
	if isNew {
		traceRet = this
	}
	it.fireReturn(fd.Body, traceRet)
	fd.releaseFrameID(rawID)
	it.popFrame()
	return retVal, noSignal
}

// construct implements `new Callee(args)`.
func (it *Interp) construct(calleeVal Value, args []Value, callNode *lang.Node) (Value, signal) {
	fnObj, ok := calleeVal.(*Object)
	if !ok || fnObj.Kind != KindFunction {
		return Undefined, it.throwHere(callNode, typeError("value is not a constructor"))
	}
	var proto *Object
	if p, ok := fnObj.Get("prototype"); ok {
		proto, _ = p.(*Object)
	} else {
		proto = NewPlainObject(nil)
		fnObj.Set("prototype", proto)
	}
	instance := NewPlainObject(proto)

	retVal, sig := it.call(calleeVal, instance, args, callNode, true)
	if sig.kind == flowThrow {
		return Undefined, sig
	}
	if retObj, ok := retVal.(*Object); ok && retObj.Kind != KindFunction {
		return retObj, noSignal
	}
	return instance, noSignal
}

// applyBinary implements arithmetic, string-concat and comparison
// operators. "+" follows the usual string-wins coercion rule;
// everything else treats its operands numerically or lexically.
func applyBinary(op string, l, r Value) Value {
	switch op {
	case "+":
		_, lIsStr := l.(string)
		_, rIsStr := r.(string)
		if lIsStr || rIsStr {
			return toDisplayString(l) + toDisplayString(r)
		}
		return toNumber(l) + toNumber(r)
	case "-":
		return toNumber(l) - toNumber(r)
	case "*":
		return toNumber(l) * toNumber(r)
	case "/":
		return toNumber(l) / toNumber(r)
	case "%":
		lf, rf := toNumber(l), toNumber(r)
		return lf - rf*float64(int64(lf/rf))
	case "==":
		return valuesEqual(l, r)
	case "!=":
		return !valuesEqual(l, r)
	case "<", "<=", ">", ">=":
		return compareOp(op, l, r)
	default:
		return Undefined
	}
}

func compareOp(op string, l, r Value) bool {
	ls, lIsStr := l.(string)
	rs, rIsStr := r.(string)
	if lIsStr && rIsStr {
		switch op {
		case "<":
			return ls < rs
		case "<=":
			return ls <= rs
		case ">":
			return ls > rs
		default:
			return ls >= rs
		}
	}
	lf, rf := toNumber(l), toNumber(r)
	switch op {
	case "<":
		return lf < rf
	case "<=":
		return lf <= rf
	case ">":
		return lf > rf
	default:
		return lf >= rf
	}
}
