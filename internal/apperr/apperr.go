// Package apperr defines the error taxonomy shared by all core operations.
// Callers match with errors.Is against the sentinel values; the HTTP layer
// maps kinds to status codes in one place.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal error")
)

// Error wraps a sentinel with human-readable detail.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Detail)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Detail: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Detail: fmt.Sprintf(format, args...)}
}

// InsufficientStock reports a debit exceeding availability. The message
// always carries both quantities so the caller can correct the request.
func InsufficientStock(available, requested decimal.Decimal) error {
	return &Error{
		Kind:   ErrInsufficientStock,
		Detail: fmt.Sprintf("only %s units available, %s requested", available.String(), requested.String()),
	}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Detail: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...interface{}) error {
	return &Error{Kind: ErrInternal, Detail: fmt.Sprintf(format, args...)}
}

// Kind returns the machine-distinguishable kind string for err.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// StatusCode maps err to the HTTP status the REST layer responds with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientStock):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	default:
		return 500
	}
}
