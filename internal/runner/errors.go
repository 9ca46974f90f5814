package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStep is returned when a step ID names no step.
	ErrUnknownStep = errors.New("runner: unknown step")
	// ErrStepComplete is returned when the named step already recorded
	// its outcome.
	ErrStepComplete = errors.New("runner: step already complete")
	// ErrStepNotReady is returned when the named step's dependency
	// closure is not yet complete, or the step sits in a cycle.
	ErrStepNotReady = errors.New("runner: step not ready")
	// ErrWrongKind is returned when an operation targets a step of a
	// different kind.
	ErrWrongKind = errors.New("runner: wrong step kind")
)

// ChainMismatchError aborts a view or method step whose declared chain ID
// does not match the live network behind the configured endpoint. The
// step's in-flight marker is left in place; a retry overwrites it.
type ChainMismatchError struct {
	StepID   string
	Declared uint64
	Live     uint64
}

func (e *ChainMismatchError) Error() string {
	return fmt.Sprintf("step %q declares chain %d but the endpoint serves chain %d",
		e.StepID, e.Declared, e.Live)
}
