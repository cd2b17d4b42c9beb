package lang

import "testing"

func TestLexIdentAndKeyword(t *testing.T) {
	toks, err := lex("var x = foo;")
	if err != nil {
		t.Fatal(err)
	}
	want := []tokKind{tokVar, tokIdent, tokAssign, tokIdent, tokSemi, tokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].kind != k {
			t.Errorf("token %d: got kind %v, want %v", i, toks[i].kind, k)
		}
	}
}

func TestLexNumber(t *testing.T) {
	toks, err := lex("3.5")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].kind != tokNumber || toks[0].num != 3.5 {
		t.Errorf("got %+v, want number 3.5", toks[0])
	}
}

func TestLexStringEscape(t *testing.T) {
	toks, err := lex(`"a\nb"`)
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].str != "a\nb" {
		t.Errorf("got %q, want %q", toks[0].str, "a\nb")
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := lex(`"abc`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	var le *LexError
	if !asLexError(err, &le) {
		t.Fatalf("got %T, want *LexError", err)
	}
}

func TestLexUnexpectedChar(t *testing.T) {
	_, err := lex("var x = @;")
	if err == nil {
		t.Fatal("expected error for unexpected character")
	}
}

func TestLexComments(t *testing.T) {
	toks, err := lex("// line comment\nvar /* block */ x;")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].kind != tokVar || toks[1].kind != tokIdent {
		t.Errorf("comments were not skipped: %+v", toks[:2])
	}
}

func asLexError(err error, target **LexError) bool {
	le, ok := err.(*LexError)
	if !ok {
		return false
	}
	*target = le
	return true
}
