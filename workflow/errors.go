package workflow

import "errors"

// Caller/input errors. None are retried automatically; InvalidTransition may
// be retried by the caller after a re-fetch.
var (
	ErrNotFound          = errors.New("request not found")
	ErrForbidden         = errors.New("actor may not perform this action")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
)

// MissingFieldError names an action-specific required field absent from the call.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// DependencyFailure wraps a collaborator error that aborted a transition.
// The request's status is left unchanged when this is returned.
type DependencyFailure struct {
	Op  string
	Err error
}

func (e *DependencyFailure) Error() string {
	return e.Op + " failed: " + e.Err.Error()
}

func (e *DependencyFailure) Unwrap() error { return e.Err }
