package agent

import (
	"errors"
	"fmt"
)

var (
	ErrNoJSON           = errors.New("no action index found in reply")
	ErrIndexOutOfRange  = errors.New("action index out of range")
	ErrRetriesExhausted = errors.New("retries exhausted")
)

type FailureKind string

const (
	BackendFailure  FailureKind = "backend"
	ParseFailure    FailureKind = "parse"
	RangeFailure    FailureKind = "range"
	InternalFailure FailureKind = "internal"
)

// DecisionError is one failed step of a decision. Attempt is zero for
// failures outside the query loop.
type DecisionError struct {
	Kind    FailureKind
	Attempt int
	Err     error
}

func (e *DecisionError) Error() string {
	if e.Attempt > 0 {
		return fmt.Sprintf("%s failure on attempt %d: %v", e.Kind, e.Attempt, e.Err)
	}
	return fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
}

func (e *DecisionError) Unwrap() error {
	return e.Err
}
