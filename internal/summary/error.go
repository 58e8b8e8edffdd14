package summary

import "fmt"

// Kind tags why a summarization attempt failed.
type Kind string

const (
	KindRunnerFailed Kind = "runner_failed"
	KindTimeout      Kind = "timeout"
	KindDecode       Kind = "decode"
	KindEmpty        Kind = "empty"
	KindInternal     Kind = "internal"
)

// Error is the single failure type returned by Service.Summarize.
// Stdout and Stderr are only set for KindRunnerFailed when the runner was a
// local process.
type Error struct {
	Kind   Kind
	Err    error
	Stdout string
	Stderr string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("summary %s", e.Kind)
	}
	return fmt.Sprintf("summary %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
