package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned (wrapped) by repositories when a document does not exist
var ErrNotFound = errors.New("not found")

// Error codes carried by AppError
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeRateLimited   = "RATE_LIMITED"
	CodeStore         = "STORE_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Op      string
	ID      string
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

// IsValidation is true for validation errors and their INVALID_STATUS subtype
func (e *AppError) IsValidation() bool {
	return e.Code == CodeValidation || e.Code == CodeInvalidStatus
}

// HTTPStatus maps the error code onto a response status
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeInvalidStatus:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
		ID:      fmt.Sprint(id),
		Err:     ErrNotFound,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewInvalidStatusError(status string) *AppError {
	return &AppError{
		Code:    CodeInvalidStatus,
		Message: fmt.Sprintf("invalid status %q: must be pending, reviewed or resolved", status),
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Code:    CodeRateLimited,
		Message: message,
	}
}

// NewStoreError wraps a persistence failure with the operation and target it hit
func NewStoreError(op, id string, err error) *AppError {
	return &AppError{
		Code:    CodeStore,
		Message: "Internal server error",
		Op:      op,
		ID:      id,
		Err:     err,
	}
}

// AsAppError returns err as an *AppError, wrapping unknown errors as store errors
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewStoreError("", "", err)
}
