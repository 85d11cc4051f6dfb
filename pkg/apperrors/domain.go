package apperrors

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
)

// Factories for the lifecycle error taxonomy.

func ErrNotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

func ErrForbidden(domain, message string) *AppError {
	return New(CodeForbidden, domain, message, http.StatusForbidden)
}

func ErrInvalidState(domain, message string) *AppError {
	return New(CodeInvalidState, domain, message, http.StatusConflict)
}

func ErrInvalidTransition(domain, message string) *AppError {
	return New(CodeInvalidTransition, domain, message, http.StatusConflict)
}

func ErrInvalidField(fields []string) *AppError {
	return New(CodeInvalidField, "validation", "Patch contains fields that cannot be updated", http.StatusBadRequest).
		WithDetails(map[string]interface{}{"fields": fields})
}

func ErrUnavailable(err error) *AppError {
	return Wrap(err, CodeUnavailable, "store", "Service temporarily unavailable, retry later", http.StatusServiceUnavailable)
}

var ErrDuplicateApplication = New(
	CodeDuplicateApplication,
	"application",
	"Provider has already applied to this job",
	http.StatusConflict,
)

var ErrDuplicateReview = New(
	CodeDuplicateReview,
	"review",
	"Reviewer has already reviewed this job",
	http.StatusConflict,
)

var ErrInvalidRating = New(
	CodeValidationFailed,
	"review",
	"Rating must be an integer between 1 and 5",
	http.StatusBadRequest,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// IsTransient reports whether a store error is a timeout or a lost connection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// FromStore converts an unexpected repository error. AppErrors pass through.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsAppError(err); ok {
		return err
	}
	if IsTransient(err) {
		return ErrUnavailable(err)
	}
	return InternalError(err)
}
