// Package errors defines custom error types for better error handling and debugging.
// AppError provides context-aware error reporting with type classification.
package errors

import (
	"errors"
	"fmt"
)

// AppError represents errors that occur while fetching or recording movies
type AppError struct {
	Type    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeConfigurationInvalid = "CONFIGURATION_INVALID"
	ErrorTypeTokenMissing         = "TOKEN_MISSING"
	ErrorTypeTMDBFailure          = "TMDB_FAILURE"
	ErrorTypeTMDBStatus           = "TMDB_STATUS"
	ErrorTypeStoreFailure         = "STORE_FAILURE"
	ErrorTypeInvalidPage          = "INVALID_PAGE"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// StatusError is returned when TMDB answers with a non-success status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API error: status %d", e.StatusCode)
}

// NewAppError creates a new AppError
func NewAppError(errorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError creates a configuration-related error
func NewConfigurationError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeConfigurationInvalid, message, cause)
}

// NewTokenMissingError creates a missing credential error
func NewTokenMissingError(service string) *AppError {
	return NewAppError(ErrorTypeTokenMissing, fmt.Sprintf("access token missing for %s", service), nil)
}

// NewTMDBError creates a TMDB-related error
func NewTMDBError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeTMDBFailure, message, cause)
}

// NewTMDBStatusError wraps a non-success HTTP response
func NewTMDBStatusError(code int, status string) *AppError {
	return NewAppError(ErrorTypeTMDBStatus, "unexpected response", &StatusError{StatusCode: code, Status: status})
}

// NewStoreError creates a trending store error
func NewStoreError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeStoreFailure, message, cause)
}

// NewInvalidPageError reports a page number outside 1..n
func NewInvalidPageError(page int) *AppError {
	return NewAppError(ErrorTypeInvalidPage, fmt.Sprintf("invalid page: %d", page), nil)
}

// NewInvalidPageParamError reports a page parameter that is not a positive integer
func NewInvalidPageParamError(raw string) *AppError {
	return NewAppError(ErrorTypeInvalidPage, fmt.Sprintf("invalid page: %q", raw), nil)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errorType string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// StatusCode extracts the HTTP status from a TMDB status error, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
