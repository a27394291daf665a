package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/xavierca1/leasing-crm/internal/entity"
)

const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeTransientStore = "TRANSIENT_STORE_ERROR"
	CodeTimeout        = "TIMEOUT"
	CodeInternal       = "INTERNAL_ERROR"
)

// DomainError is a failure the caller caused or can act on. It is reported,
// never retried.
type DomainError struct {
	Code    string
	Message string
	// Holder is the current claimant for CONFLICT errors.
	Holder string
	Err    error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a store or infrastructure failure. TRANSIENT_STORE_ERROR
// may be retried once by the caller.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the taxonomy code of err, or "" for unstructured errors.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func NewValidationError(msg string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func NewConflictError(holder string) *DomainError {
	return &DomainError{
		Code:    CodeConflict,
		Message: fmt.Sprintf("This Lead has already been claimed by %s", holder),
		Holder:  holder,
	}
}

func NewTransientStoreError(op string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeTransientStore, Message: op, Err: err}
}

func NewTimeoutError(op string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeTimeout, Message: op + ": timed out", Err: err}
}

// structure converts any error coming out of the store into the taxonomy.
// Errors that are already structured are unwrapped and passed through.
func structure(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(op, err)
	}
	return NewTransientStoreError(op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}
