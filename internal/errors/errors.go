package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated is returned when the bearer credential is missing,
	// invalid, expired, or references an account that no longer exists.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when a valid credential carries the wrong role.
	ErrForbidden = errors.New("insufficient role")
	// ErrNotFound is returned when a referenced account or store does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrEmailTaken is returned when an account or store email is already in use.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidRating is returned when a rating value is outside [1,5].
	ErrInvalidRating = errors.New("rating value must be an integer between 1 and 5")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries every field rule violated by one request, not just
// the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError wraps a non-empty violation list.
func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Storage error text never
// reaches the client; anything unrecognized maps to a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "validation failed",
			Code:       "VALIDATION_FAILED",
			Details:    vErr.Violations,
		}
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidRating):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RATING")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
