package tracer

// OutputMode selects how cmd/tracer renders Run's Result, the external
// contract of §6 (out of scope for the core, but the core must produce
// a Result that satisfies it). Run itself does not read it.
type OutputMode int

const (
	OutputNone OutputMode = iota
	OutputJSON
	OutputPretty
	OutputFile
)

// Options configures one tracer run. FilePath/InlineCode mirror the
// CLI's file-path/inline-code flags (§6); exactly one is expected to
// be set by the caller (cmd/tracer enforces this before calling Run).
type Options struct {
	FilePath   string
	InlineCode string

	// MaxExecutedLines is the step budget of §5 (recommended default
	// 300, applied by maxExecutedLines when zero or negative).
	MaxExecutedLines int

	// GlobalsIgnore is the configurable ignore-list of §6/§9: names
	// filtered out of globals at global-scope collection time. Left
	// nil to use DefaultGlobalsIgnore.
	GlobalsIgnore map[string]bool

	Mode       OutputMode
	OutputFile string // destination path when Mode == OutputFile
}

const defaultMaxExecutedLines = 300

func (o Options) maxExecutedLines() int {
	if o.MaxExecutedLines > 0 {
		return o.MaxExecutedLines
	}
	return defaultMaxExecutedLines
}

func (o Options) globalsIgnore() map[string]bool {
	if o.GlobalsIgnore != nil {
		return o.GlobalsIgnore
	}
	return DefaultGlobalsIgnore()
}

// DefaultGlobalsIgnore is this implementation's ignore list (§6,
// §9). The host runtime here is a from-scratch interpreter rather
// than a real JS engine, so the classic typed-array/Buffer/process
// names have no equivalent; what does carry over is every name
// installBuiltins declares that the user program never wrote
// itself, so it never shows up as a spurious global in the trace.
func DefaultGlobalsIgnore() map[string]bool {
	return map[string]bool{
		"print": true,
		"Error": true,
	}
}
