package tracer

// finalize applies the Finalizer step of §7: the module-level wrapper's
// own closing "return" renders with an empty stack_to_render once the
// wrapper frame is excluded from rendering (see buildStackToRender);
// that trailing entry carries no information a consumer can act on, so
// it is dropped rather than shipped as part of the trace.
func finalize(trace []TraceEntry) []TraceEntry {
	if len(trace) == 0 {
		return trace
	}
	last := trace[len(trace)-1]
	if last.Event == "return" && len(last.StackToRender) == 0 {
		return trace[:len(trace)-1]
	}
	return trace
}
