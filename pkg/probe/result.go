package probe

import (
	"fmt"
	"time"
)

// Status is the outcome of one (device, test) pair. The enumeration is a
// contract boundary: renderers and external consumers depend on these exact
// values.
type Status string

const (
	StatusUnset   Status = "unset"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one test invocation against one device.
//
// Status transitions are monotonic: once failure, error, or skipped is
// reached, no primitive moves the result back to success. All mutation goes
// through the primitives below; the result is owned by the executing
// pipeline until terminal, then exclusively by the aggregator.
type Result struct {
	Device     string
	Test       string
	Categories []string
	Tags       []string

	status   Status
	messages []string
	duration time.Duration
}

// NewResult creates an unset result for a scheduled (device, test) pair.
func NewResult(device, test string, categories, tags []string) *Result {
	return &Result{
		Device:     device,
		Test:       test,
		Categories: categories,
		Tags:       tags,
		status:     StatusUnset,
	}
}

// Status returns the current status.
func (r *Result) Status() Status {
	return r.status
}

// Messages returns the ordered failure/error/skip messages.
func (r *Result) Messages() []string {
	return r.messages
}

// Duration returns the recorded wall-clock duration.
func (r *Result) Duration() time.Duration {
	return r.duration
}

// DurationMs returns the duration in whole milliseconds.
func (r *Result) DurationMs() int64 {
	return r.duration.Milliseconds()
}

// Pass marks the result successful, but only from the unset state. A prior
// failure, error, or skip always sticks.
func (r *Result) Pass() {
	if r.status == StatusUnset {
		r.status = StatusSuccess
	}
}

// Failf records one assertion failure. Each call appends one message;
// repeated calls accumulate rather than replace. A failure overrides a
// premature success but never an error or a skip.
func (r *Result) Failf(format string, args ...any) {
	if r.status == StatusError || r.status == StatusSkipped {
		return
	}
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
	r.status = StatusFailure
}

// Errorf records a dispatch-level error (transport failure or command
// rejection). It overrides success and failure but not a skip, which means
// no command was ever dispatched.
func (r *Result) Errorf(format string, args ...any) {
	if r.status == StatusSkipped {
		return
	}
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
	r.status = StatusError
}

// Skipf marks the result skipped. Only reachable before anything else
// happened to the result, i.e. before any command was dispatched.
func (r *Result) Skipf(format string, args ...any) {
	if r.status != StatusUnset {
		return
	}
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
	r.status = StatusSkipped
}

// Terminal reports whether the result reached a final state.
func (r *Result) Terminal() bool {
	return r.status != StatusUnset
}

// setDuration records elapsed wall-clock time; called once by the pipeline.
func (r *Result) setDuration(d time.Duration) {
	r.duration = d
}
