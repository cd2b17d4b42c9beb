package tracer

import (
	"io"
	"log"
	"os"
)

// Logger is where this package's own diagnostics go: internal
// assertion failures and non-fatal warnings, never the traced
// program's own stdout (that is StdoutCapture's job). Tests can
// redirect it to silence or capture diagnostics.
var Logger = log.New(os.Stderr, "tracer: ", 0)

func SetLogOutput(w io.Writer) { Logger.SetOutput(w) }
