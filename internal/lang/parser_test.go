package lang

import "testing"

func TestParseVarDecl(t *testing.T) {
	prog, _, err := Parse("var x = 1;", "t.js")
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Child) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Child))
	}
	s := prog.Child[0]
	if s.Kind != KindVarDecl || s.Name != "x" {
		t.Errorf("got %+v, want var decl for x", s)
	}
}

func TestParseFirstStatementStringLitIsPragma(t *testing.T) {
	prog, _, err := Parse(`"use strict"; var x = 1;`, "t.js")
	if err != nil {
		t.Fatal(err)
	}
	if prog.Child[0].Kind != KindPragma {
		t.Errorf("got kind %v, want KindPragma", prog.Child[0].Kind)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog, _, err := Parse("function f(a,b){ return a+b; }", "t.js")
	if err != nil {
		t.Fatal(err)
	}
	fn := prog.Child[0]
	if fn.Kind != KindFuncDecl || fn.Name != "f" || len(fn.Params) != 2 {
		t.Errorf("got %+v, want func decl f(a,b)", fn)
	}
}

func TestParseNewExprDoesNotConsumeMethodCall(t *testing.T) {
	prog, _, err := Parse("var o = new C();", "t.js")
	if err != nil {
		t.Fatal(err)
	}
	decl := prog.Child[0]
	newExpr := decl.Child[0]
	if newExpr.Kind != KindNewExpr {
		t.Fatalf("got %v, want KindNewExpr", newExpr.Kind)
	}
}

func TestParseErrorHasLineAndCol(t *testing.T) {
	_, _, err := Parse("var x = 1;\nvar bad = (;", "t.js")
	if err == nil {
		t.Fatal("expected parse error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got %T, want *ParseError", err)
	}
	if pe.Line != 2 {
		t.Errorf("got line %d, want 2", pe.Line)
	}
	if pe.Col != 12 {
		t.Errorf("got col %d, want 12", pe.Col)
	}
}

func TestParseTryCatch(t *testing.T) {
	prog, _, err := Parse(`try { throw 1; } catch (e) { var x = e; }`, "t.js")
	if err != nil {
		t.Fatal(err)
	}
	tryStmt := prog.Child[0]
	if tryStmt.Kind != KindTryStmt || tryStmt.Name != "e" || len(tryStmt.Child) != 2 {
		t.Errorf("got %+v, want try/catch binding e", tryStmt)
	}
}

func TestParseOnlyMatchesParse(t *testing.T) {
	src := "var bad = (;"
	err1 := ParseOnly(src, "t.js")
	_, _, err2 := Parse(src, "t.js")
	if (err1 == nil) != (err2 == nil) {
		t.Errorf("ParseOnly and Parse disagree on error: %v vs %v", err1, err2)
	}
}
