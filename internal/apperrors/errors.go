package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that an operation is not permitted in the entry's current workflow state.
var ErrInvalidState = errors.New("invalid state for requested operation")

// ErrInvalidReference indicates that an entry line references a nonexistent or inactive account.
var ErrInvalidReference = errors.New("invalid account reference")

// ErrConcurrencyConflict indicates that an optimistic concurrency check failed;
// the caller should re-fetch and retry.
var ErrConcurrencyConflict = errors.New("concurrent modification detected")

// ErrForbidden indicates that the acting user is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted for this user")

// ErrInternal indicates an unexpected internal failure (e.g. storage unavailability).
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with a code and message for consistent propagation.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// InvalidStateError reports an operation attempted in a workflow state that
// does not allow it. It names the entry's current status and the attempted
// action so the caller can surface the conflict verbatim.
type InvalidStateError struct {
	Current string
	Action  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s an entry in status %s", e.Action, e.Current)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// NewInvalidStateError creates an InvalidStateError for the given attempt.
func NewInvalidStateError(current, action string) *InvalidStateError {
	return &InvalidStateError{Current: current, Action: action}
}
