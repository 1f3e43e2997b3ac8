package service

import (
	"errors"
	"fmt"

	dom "todoassign/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrTodoNotFound = fmt.Errorf("todo %w", ErrNotFound)
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// ConflictError reports a rejected lifecycle transition together with the
// status that caused it.
type ConflictError struct {
	Op      string
	Reason  dom.RejectReason
	Current dom.TodoStatus
	cause   error
}

func newConflict(op string, te *dom.TransitionError) *ConflictError {
	return &ConflictError{Op: op, Reason: te.Reason, Current: te.Current, cause: te}
}

func (e *ConflictError) Error() string { return e.cause.Error() }

func (e *ConflictError) Unwrap() []error { return []error{ErrConflict, e.cause} }

// ErrorKind classifies errors returned by the services.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalid
	KindNotFound
	KindConflict
	KindInfrastructure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "infrastructure"
}

// KindOf tells the three failure kinds apart without looking at messages.
// Anything that is not invalid input, not-found or conflict is infrastructure.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalid
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	}
	return KindInfrastructure
}
