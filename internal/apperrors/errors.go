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

// ErrForbidden indicates the actor lacks the role required for the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the resource is in a state that does not permit the action.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Ledger invariant violations. These are never silently coerced; the enclosing
// transaction aborts and the error is reported to the caller verbatim.
var (
	ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")
	ErrInvalidAccount  = errors.New("invalid ledger account")
	ErrAlreadyPosted   = errors.New("journal entry is already posted")
	ErrNotPostable     = errors.New("journal entry is not postable")
)

// ErrUnknownExchangeRate indicates no rate could be resolved for a currency
// pair, including via the inverse pair and the static fallback table.
var ErrUnknownExchangeRate = errors.New("unknown exchange rate")

// ErrDuplicateRequest indicates an idempotency-key replay of a previously
// executed command.
var ErrDuplicateRequest = errors.New("duplicate request")

// AppError wraps an underlying error with an HTTP-style status code and a
// caller-safe message. The wrapped error is for logs only and is never
// serialized to clients.
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

// NewAppError creates an AppError with the given status code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// StatusCode extracts the HTTP status from err. Sentinel errors map to their
// conventional statuses; AppError carries its own; anything else is a 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrValidation):
		return 422
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrForbidden):
		return 403
	case errors.Is(err, ErrDuplicateRequest):
		return 409
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return 409
	case errors.Is(err, ErrUnbalancedEntry), errors.Is(err, ErrInvalidAccount),
		errors.Is(err, ErrAlreadyPosted), errors.Is(err, ErrNotPostable):
		return 422
	case errors.Is(err, ErrUnknownExchangeRate):
		return 422
	default:
		return 500
	}
}
