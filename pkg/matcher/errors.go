package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// ErrorKind categorizes the core's error taxonomy (spec §7).
type ErrorKind string

const (
	// ContractViolation covers a null entity, cross-class member
	// pairing, mismatched array dimensions, or arg/local var mixing.
	// Raised before any mutation, so graph state is left intact.
	ContractViolation ErrorKind = "contract_violation"

	// WorkerFailure covers any failure raised by a parallel scoring
	// worker; it aborts the current auto-match pass.
	WorkerFailure ErrorKind = "worker_failure"
)

// MatchError is the core's error type. It never represents a sanitize
// discard (not an error, spec §7) or a merge-match rejection (logged, not
// erred).
type MatchError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *MatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *MatchError) Unwrap() error { return e.Cause }

func newContractViolation(format string, args ...interface{}) *MatchError {
	return &MatchError{Kind: ContractViolation, Message: fmt.Sprintf(format, args...)}
}

// newWorkerFailure aggregates every error a parallel pass's workers
// produced (parallel.RunInParallel returns one per failing worker, spec
// §4.8) into a single MatchError: one failure wraps its cause directly,
// more than one collapses through MultiError the same way the teacher's
// own fan-out callers report multiple worker failures at once. Returns
// nil if errs is empty, so callers can use it unconditionally.
func newWorkerFailure(errs []error) *MatchError {
	me := &MultiError{}
	for _, err := range errs {
		me.Append(err)
	}
	if !me.HasErrors() {
		return nil
	}
	return &MatchError{Kind: WorkerFailure, Message: "auto-match worker failed", Cause: me.AsError()}
}

// MultiError aggregates every failure from a fan-out pass (spec §4.8: "a
// failure in any task aborts with that failure" is surfaced to the driver
// as one MultiError if more than one worker failed before cancellation
// landed).
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, fmt.Sprintf(" - %s\n", err))
	}
	sort.Strings(lines)
	return ansi.Sprintf("@r{%d} error(s) detected:\n%s\n", len(e.Errors), strings.Join(lines, ""))
}

func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if mult, ok := err.(MultiError); ok {
		e.Errors = append(e.Errors, mult.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *MultiError) HasErrors() bool { return len(e.Errors) > 0 }

// AsError returns nil if no errors were appended, or the MultiError
// (possibly collapsed to the single wrapped error) otherwise.
func (e *MultiError) AsError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return *e
}
