package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUpstream        = "UPSTREAM_ERROR"
	ErrCodeMalformedGame   = "MALFORMED_GAME"
	ErrCodeUntrackedPlayer = "UNTRACKED_PLAYER"
	ErrCodeUnavailable     = "UNAVAILABLE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewUnknownPlayerError reports a username chess.com does not know.
func NewUnknownPlayerError(username string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("that username isn't right: %q", username),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewUpstreamError wraps a failure talking to the chess.com API.
func NewUpstreamError(operation string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: fmt.Sprintf("upstream %s failed", operation),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewMalformedGameError reports a raw game that lacks a mandatory key.
func NewMalformedGameError(gameURL string, missing []string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedGame,
		Message: fmt.Sprintf("game %q is missing %v", gameURL, missing),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewUntrackedPlayerError reports a game in which neither side is the tracked user.
func NewUntrackedPlayerError(gameURL, username string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUntrackedPlayer,
		Message: fmt.Sprintf("game %q has no side played by %q", gameURL, username),
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// NewUnavailableError reports a temporarily saturated resource.
func NewUnavailableError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnavailable,
		Message: message,
		Status:  http.StatusServiceUnavailable,
	}
}

// CodeOf returns the AppError code found in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// As converts err to an AppError, wrapping unknown errors as internal.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
