package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCancelled      = errors.New("request superseded by a newer one")
	ErrTimeout        = errors.New("password generation timed out")
	ErrEnvironment    = errors.New("secure random source unavailable")
	ErrInvalidOptions = errors.New("invalid generation options")
	ErrClosed         = errors.New("password generator is closed")
)

// TimeoutError is returned when no worker found a valid candidate before
// the request budget ran out.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no password satisfied the constraints within %s: "+
		"relax the proportions or case variance, or choose a longer password or a larger alphabet", e.Timeout)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

type EnvironmentError struct {
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s: %v", ErrEnvironment, e.Err)
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

func (e *EnvironmentError) Is(target error) bool {
	return target == ErrEnvironment
}

// WorkerError carries an unclassified failure raised inside one worker.
type WorkerError struct {
	WorkerID int
	Err      error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.WorkerID, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// OutcomeOf maps a generate result onto the outcome label stored in history.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrCancelled):
		return OutcomeCancelled
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrEnvironment):
		return OutcomeEnvironment
	case errors.Is(err, ErrInvalidOptions):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
