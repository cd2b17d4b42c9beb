package tracer

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"strings"

	"github.com/cluo/opt-trace/internal/interp"
	"github.com/cluo/opt-trace/internal/lang"
)

// Run drives C1 through C5 end to end for one program, per §2's data
// flow: user source -> C1 -> runtime; runtime events -> C5 -> (C2, C3,
// C4) -> trace entry.
func Run(opts Options) (*Result, error) {
	source, err := readSource(opts)
	if err != nil {
		return nil, err
	}

	wrapped := Wrap(source)
	prog, fset, err := lang.Parse(wrapped, interp.UserScript)
	if err != nil {
		return parseFailureResult(source, wrapped, err)
	}

	stdout := NewStdoutCapture()
	if err := stdout.Acquire(context.Background()); err != nil {
		return nil, err
	}
	defer stdout.Release()

	it := interp.New(stdout)
	it.SetPositionResolver(func(pos token.Pos) (int, int) {
		p := fset.Position(pos)
		return p.Line, p.Column
	})

	stepper := newStepper(stdout, opts.globalsIgnore(), opts.maxExecutedLines())
	it.Hook = stepper.Hook

	if err := runGuarded(it, prog); err != nil {
		return nil, err
	}

	trace := finalize(stepper.trace)
	return &Result{Code: source, Trace: trace}, nil
}

// runGuarded invokes the interpreter, converting an *internalError
// panic raised by assert (inside the Hook, which runs synchronously
// on this goroutine) into a returned error. Any other panic is not
// this package's to handle and is re-raised, per §7's split between
// recoverable tracer errors and fatal invariant violations.
func runGuarded(it *interp.Interp, prog *lang.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*internalError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()
	return it.Run(prog)
}

func readSource(opts Options) (string, error) {
	switch {
	case opts.FilePath != "" && opts.InlineCode != "":
		return "", fmt.Errorf("tracer: exactly one of file-path or inline-code must be provided, got both")
	case opts.FilePath != "":
		b, err := os.ReadFile(opts.FilePath)
		if err != nil {
			return "", fmt.Errorf("tracer: reading %s: %w", opts.FilePath, err)
		}
		return strings.TrimRight(string(b), " \t\r\n"), nil
	case opts.InlineCode != "":
		return strings.TrimRight(opts.InlineCode, " \t\r\n"), nil
	default:
		// Empty inline code cannot be told apart from no source at all;
		// both trace the empty program (cmd/tracer rejects the
		// neither-given case before calling Run).
		return "", nil
	}
}

// parseFailureResult implements the parse-failure branch of §7: a
// single uncaught_exception entry located by re-parsing the wrapped
// source. The re-parse runs the same lang.Parse as the first attempt,
// so it is not independent of it and normally reports the same error.
func parseFailureResult(source, wrapped string, firstErr error) (*Result, error) {
	_, _, reparseErr := lang.Parse(wrapped, interp.UserScript)
	line, col, msg := 0, 0, firstErr.Error()
	usedErr := firstErr
	if reparseErr != nil {
		usedErr = reparseErr
	}
	var pe *lang.ParseError
	if errors.As(usedErr, &pe) {
		line, col, msg = pe.Line-preludeLines, pe.Col, pe.Msg
	} else if reparseErr == nil {
		msg = "independent parse succeeded but original failed; location unavailable: " + firstErr.Error()
	}

	entry := TraceEntry{
		Event:          "uncaught_exception",
		Line:           line,
		Col:            col,
		ExceptionMsg:   msg,
		Globals:        map[string]EncodedValue{},
		OrderedGlobals: []string{},
		StackToRender:  []StackEntry{},
		Heap:           HeapTable{},
	}
	return &Result{Code: source, Trace: []TraceEntry{entry}}, nil
}
