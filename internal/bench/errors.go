package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrInterrupted reports that the run context ended before completion.
	// No record is written.
	ErrInterrupted = errors.New("bench: run interrupted")

	// ErrInvalidOptions reports driver options that cannot produce a run.
	ErrInvalidOptions = errors.New("bench: invalid options")
)

// StepError wraps a strategy failure with the iteration it happened on.
type StepError struct {
	Iteration int
	Strategy  string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("bench: %s failed at iteration %d: %v", e.Strategy, e.Iteration, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
