package tracer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// readFixtureSource loads the "source.js" section out of a txtar
// archive under testdata/, the same lightweight multi-file fixture
// format golang.org/x/tools provides.
func readFixtureSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("..", "..", "testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	arc := txtar.Parse(data)
	for _, f := range arc.Files {
		if f.Name == "source.js" {
			return string(f.Data)
		}
	}
	t.Fatalf("%s: no source.js section", name)
	return ""
}

func TestIdempotentJSONOutput(t *testing.T) {
	src := readFixtureSource(t, "idempotence.txtar")

	r1, err := Run(Options{InlineCode: src})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Run(Options{InlineCode: src})
	if err != nil {
		t.Fatal(err)
	}

	b1, err := json.Marshal(r1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := json.Marshal(r2)
	if err != nil {
		t.Fatal(err)
	}
	if string(b1) != string(b2) {
		t.Error("running the tracer twice on identical input produced different JSON")
	}
}

func TestTraceJSONRoundTrips(t *testing.T) {
	src := readFixtureSource(t, "idempotence.txtar")

	r, err := Run(Options{InlineCode: src})
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var back Result
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	b2, err := json.Marshal(&back)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != string(b2) {
		t.Error("trace did not round-trip through JSON unchanged")
	}
}

func TestGlobalsKeysMatchOrderedGlobals(t *testing.T) {
	src := readFixtureSource(t, "idempotence.txtar")
	r, err := Run(Options{InlineCode: src})
	if err != nil {
		t.Fatal(err)
	}
	for i, e := range r.Trace {
		if len(e.Globals) != len(e.OrderedGlobals) {
			t.Fatalf("entry %d: %d globals but %d ordered_globals", i, len(e.Globals), len(e.OrderedGlobals))
		}
		for _, name := range e.OrderedGlobals {
			if _, ok := e.Globals[name]; !ok {
				t.Errorf("entry %d: ordered_globals has %q not present in globals", i, name)
			}
		}
		for _, s := range e.StackToRender {
			if len(s.EncodedLocals) != len(s.OrderedVarnames) {
				t.Fatalf("entry %d frame %q: %d locals but %d ordered_varnames", i, s.FuncName, len(s.EncodedLocals), len(s.OrderedVarnames))
			}
			if s.UniqueHash != s.FuncName+"_f"+itoa(s.FrameID) {
				t.Errorf("entry %d frame %q: unique_hash %q does not match func_name_f+frame_id", i, s.FuncName, s.UniqueHash)
			}
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
