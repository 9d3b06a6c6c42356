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

// ErrLedgerMismatch indicates that an account balance no longer equals the sum of its ledger entries.
var ErrLedgerMismatch = errors.New("account balance does not match ledger history")

// Transfer rejections. Each one is reported before any effect is applied.
var (
	ErrInvalidAmount     = fmt.Errorf("%w: amount is not a valid decimal", ErrValidation)
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrRecipientNotFound = fmt.Errorf("%w: recipient not found", ErrNotFound)
	ErrSelfTransfer      = fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
)

// Storage failures. A transfer that fails with either of these left no partial effect behind.
var (
	// ErrStorageConflict means concurrent-write retries were exhausted; the caller may retry.
	ErrStorageConflict = errors.New("storage conflict, retries exhausted")
	// ErrStorageUnavailable means the backing store could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AppError carries an HTTP-ish status code alongside a message and the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
