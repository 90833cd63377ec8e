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

// ErrNotAllowed indicates that a business rule forbids the requested operation
// (locked document, insufficient approval limit, insufficient funds, etc.).
// Callers always receive it wrapped with a specific reason.
var ErrNotAllowed = errors.New("operation not allowed")

// ErrForbidden indicates the acting user lacks the capability for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource changed underneath the caller
// (e.g., a concurrent approval won the race).
var ErrConflict = errors.New("conflicting state")

// ErrUnbalancedTransaction indicates a ledger posting whose debit and credit
// legs do not sum to the same amount. This is an internal invariant violation,
// not a user-facing condition.
var ErrUnbalancedTransaction = errors.New("transaction records do not balance")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and message.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
