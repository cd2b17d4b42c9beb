// Command tracer runs a program under the single-step execution
// tracer and emits its trace per the external contract of §6: JSON to
// stdout, a human-readable rendering to stdout, or JSON to a file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cluo/opt-trace/internal/tracer"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("tracer", pflag.ContinueOnError)
	filePath := flags.String("file-path", "", "path to the source file to trace")
	inlineCode := flags.String("inline-code", "", "source text to trace, given directly on the command line")
	emitJSON := flags.Bool("emit-json-to-stdout", false, "write the trace as JSON to stdout")
	emitPretty := flags.Bool("emit-pretty-to-stdout", false, "write a human-readable rendering of the trace to stdout")
	emitFile := flags.String("emit-to-file", "", "write the trace as JSON to the given path")
	maxLines := flags.Int("max-executed-lines", 0, "step budget before instruction_limit_reached is forced (0 uses the default)")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if (*filePath == "") == (*inlineCode == "") {
		fmt.Fprintln(os.Stderr, "tracer: exactly one of --file-path or --inline-code is required")
		return 1
	}

	mode := tracer.OutputNone
	switch {
	case *emitFile != "":
		mode = tracer.OutputFile
	case *emitPretty:
		mode = tracer.OutputPretty
	case *emitJSON:
		mode = tracer.OutputJSON
	}

	result, err := tracer.Run(tracer.Options{
		FilePath:         *filePath,
		InlineCode:       *inlineCode,
		MaxExecutedLines: *maxLines,
		Mode:             mode,
		OutputFile:       *emitFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracer: %v\n", err)
		return 1
	}

	if err := emit(result, mode, *emitFile); err != nil {
		fmt.Fprintf(os.Stderr, "tracer: %v\n", err)
		return 1
	}

	// A caught exception or a step-limit abort still ends with a normal
	// exit; only a tracer-internal failure (handled above) is non-zero.
	return 0
}

func emit(result *tracer.Result, mode tracer.OutputMode, path string) error {
	switch mode {
	case tracer.OutputJSON:
		return json.NewEncoder(os.Stdout).Encode(result)
	case tracer.OutputPretty:
		var sb strings.Builder
		tracer.WritePretty(&sb, result)
		_, err := os.Stdout.WriteString(sb.String())
		return err
	case tracer.OutputFile:
		b, err := json.Marshal(result)
		if err != nil {
			return err
		}
		return os.WriteFile(path, b, 0o644)
	default:
		return json.NewEncoder(os.Stdout).Encode(result)
	}
}
