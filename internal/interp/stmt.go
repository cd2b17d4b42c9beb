package interp

import "github.com/cluo/opt-trace/internal/lang"

// execBlockBody runs a sequence of statements in scope, hoisting
// function declarations first (so forward references to a
// sibling-declared function resolve, matching the traced language's
// declaration hoisting) and otherwise executing in source order.
// Blocks do not introduce a new lexical scope: this language only has
// function-scoped `var`, so if/while/for bodies share their
// enclosing scope, matching the single-scope-per-activation model
// the Identity Registry's frame locals rely on.
func (it *Interp) execBlockBody(stmts []*lang.Node, scope *Scope) signal {
	for _, s := range stmts {
		if s.Kind == lang.KindFuncDecl {
			it.hoistFuncDecl(s, scope)
		}
	}
	for _, s := range stmts {
		if s.Kind == lang.KindFuncDecl {
			continue
		}
		sig := it.execStmt(s, scope)
		if sig.kind != flowNone {
			return sig
		}
	}
	return noSignal
}

func (it *Interp) hoistFuncDecl(n *lang.Node, scope *Scope) {
	fd := &FuncData{Name: n.Name, Params: n.Params, Body: n.Body, Closure: scope, SourceText: n.Source}
	scope.Declare(n.Name, NewFunction(fd, nil))
}

func (it *Interp) execStmt(n *lang.Node, scope *Scope) signal {
	switch n.Kind {
	case lang.KindPragma:
		return noSignal

	case lang.KindDebuggerStmt:
		it.fireLine(n)
		return noSignal

	case lang.KindBlockStmt:
		return it.execBlockBody(n.Child, scope)

	case lang.KindVarDecl:
		v := Value(Undefined)
		if len(n.Child) > 0 {
			var sig signal
			v, sig = it.evalExpr(n.Child[0], scope)
			if sig.kind == flowThrow {
				return sig
			}
		}
		scope.Declare(n.Name, v)
		it.fireLine(n)
		return noSignal

	case lang.KindExprStmt:
		_, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return sig
		}
		it.fireLine(n)
		return noSignal

	case lang.KindIfStmt:
		cond, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return sig
		}
		it.fireLine(n)
		if truthy(cond) {
			return it.execStmt(n.Child[1], scope)
		}
		if len(n.Child) > 2 {
			return it.execStmt(n.Child[2], scope)
		}
		return noSignal

	case lang.KindWhileStmt:
		return it.execWhile(n, scope)

	case lang.KindForStmt:
		return it.execFor(n, scope)

	case lang.KindReturnStmt:
		v := Value(Undefined)
		if len(n.Child) > 0 {
			var sig signal
			v, sig = it.evalExpr(n.Child[0], scope)
			if sig.kind == flowThrow {
				return sig
			}
		}
		it.fireLine(n)
		return signal{kind: flowReturn, value: v}

	case lang.KindThrowStmt:
		v, sig := it.evalExpr(n.Child[0], scope)
		if sig.kind == flowThrow {
			return sig
		}
		it.fireException(n, v)
		return signal{kind: flowThrow, value: v}

	case lang.KindTryStmt:
		sig := it.execStmt(n.Child[0], scope)
		if sig.kind == flowThrow && len(n.Child) > 1 {
			catchScope := NewScope(ScopeCatch, scope)
			if n.Name != "" {
				catchScope.Declare(n.Name, sig.value)
			}
			return it.execStmt(n.Child[1], catchScope)
		}
		return sig

	case lang.KindBreakStmt:
		return signal{kind: flowBreak}

	case lang.KindContinueStmt:
		return signal{kind: flowContinue}

	case lang.KindFuncDecl:
		return noSignal

	default:
		return noSignal
	}
}

func (it *Interp) execWhile(n *lang.Node, scope *Scope) signal {
	cond, body := n.Child[0], n.Child[1]
	for {
		it.fireLine(n)
		cv, sig := it.evalExpr(cond, scope)
		if sig.kind == flowThrow {
			return sig
		}
		if !truthy(cv) {
			return noSignal
		}
		bsig := it.execStmt(body, scope)
		switch bsig.kind {
		case flowBreak:
			return noSignal
		case flowContinue, flowNone:
			// keep looping
		default:
			return bsig
		}
	}
}

func (it *Interp) execFor(n *lang.Node, scope *Scope) signal {
	initN, condN, postN, body := n.Child[0], n.Child[1], n.Child[2], n.Child[3]
	if initN.Kind != lang.KindInvalid {
		sig := it.execForClause(initN, scope)
		if sig.kind == flowThrow {
			return sig
		}
	}
	for {
		it.fireLine(n)
		if condN.Kind != lang.KindInvalid {
			cv, sig := it.evalExpr(condN, scope)
			if sig.kind == flowThrow {
				return sig
			}
			if !truthy(cv) {
				return noSignal
			}
		}
		bsig := it.execStmt(body, scope)
		switch bsig.kind {
		case flowBreak:
			return noSignal
		case flowContinue, flowNone:
			// fall through to post clause
		default:
			return bsig
		}
		if postN.Kind != lang.KindInvalid {
			_, sig := it.evalExpr(postN, scope)
			if sig.kind == flowThrow {
				return sig
			}
		}
	}
}

// execForClause runs a for-loop's init clause, which the parser hands
// back as either a KindVarDecl or a plain expression node.
func (it *Interp) execForClause(n *lang.Node, scope *Scope) signal {
	if n.Kind == lang.KindVarDecl {
		v := Value(Undefined)
		if len(n.Child) > 0 {
			var sig signal
			v, sig = it.evalExpr(n.Child[0], scope)
			if sig.kind == flowThrow {
				return sig
			}
		}
		scope.Declare(n.Name, v)
		return noSignal
	}
	_, sig := it.evalExpr(n, scope)
	return sig
}
