package cpengine

// NoSolutionError reports that the engine could not find any feasible
// assignment within the configured time limit. The core does not retry; a
// caller who wants a different outcome must resubmit with a wider time
// limit.
type NoSolutionError struct {
	TimeLimitSeconds int64
}

func (e *NoSolutionError) Error() string {
	return "cpengine: no feasible solution found within the time limit"
}
