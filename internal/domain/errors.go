package domain

import "errors"

// Error kinds. Services return a *Error wrapping one of these so callers can
// branch with errors.Is and still surface a human-readable message.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidInput     = errors.New("invalid input")
)

// Error is a typed service error carrying a kind and a message for the caller.
type Error struct {
	Kind    error
	Message string
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Errors shared between the repositories and the services.
var (
	ErrActivityNotFound     = NewError(ErrNotFound, "activity not found")
	ErrNotRegistered        = NewError(ErrNotFound, "not registered")
	ErrActivityFull         = NewError(ErrConflict, "activity full")
	ErrAlreadyRegistered    = NewError(ErrConflict, "already registered")
	ErrNotPending           = NewError(ErrConflict, "activity is not pending review")
	ErrCapacityBelowCurrent = NewError(ErrConflict, "capacity is lower than current participants")
	ErrNotRecruiting        = NewError(ErrInvalidState, "activity not open for registration")
)
