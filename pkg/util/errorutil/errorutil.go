package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors across handlers and services.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidationError flags bad input or a violated business rule (400).
func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

// NewUnauthorized flags a missing or invalid credential (401).
func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

// NewForbidden flags a role or ownership rule violation (403).
func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden)
}

// NewNotFound flags an unresolved resource id (404).
func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewDependencyError flags an unavailable store or upstream (500).
func NewDependencyError(err error) error {
	return &DomainError{
		Code:       "DEPENDENCY_UNAVAILABLE",
		Message:    "a backing service is unavailable",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternalError wraps an unexpected failure (500).
func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unclassified errors
// become 500s; pgx.ErrNoRows becomes a 404 so repositories can surface it
// directly.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource").(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError is a convenience wrapper returning the error interface.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsNotFound reports whether err resolves to a 404.
func IsNotFound(err error) bool {
	return ToDomainError(err) != nil && ToDomainError(err).HTTPStatus == http.StatusNotFound
}
