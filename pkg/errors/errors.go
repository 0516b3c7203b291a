package errors

import (
	"fmt"
	"net/http"
)

// ErrorType is the stable machine-readable code for an error kind.
// Clients branch on these values, so they never change once published.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeAuthorization  ErrorType = "authorization"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypePollInactive   ErrorType = "poll_inactive"
	ErrorTypePollExpired    ErrorType = "poll_expired"
	ErrorTypeInvalidOption  ErrorType = "invalid_option"
	ErrorTypeAlreadyVoted   ErrorType = "already_voted"
	ErrorTypeInternal       ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthorization,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewPollInactiveError signals a vote against a deactivated poll
func NewPollInactiveError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypePollInactive,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewPollExpiredError signals a vote submitted after the poll's expiry
func NewPollExpiredError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypePollExpired,
		Message:    message,
		StatusCode: http.StatusGone,
	}
}

// NewInvalidOptionError signals an option set that does not fit the poll
func NewInvalidOptionError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidOption,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewAlreadyVotedError signals a duplicate vote per the poll's invariant
func NewAlreadyVotedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAlreadyVoted,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewInternalError creates a new internal server error. The internal
// cause is logged but never serialized to the client.
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// ErrorResponse represents the JSON error response
type ErrorResponse struct {
	Error struct {
		Type      ErrorType              `json:"type"`
		Message   string                 `json:"message"`
		Details   map[string]interface{} `json:"details,omitempty"`
		RequestID string                 `json:"request_id,omitempty"`
		Timestamp string                 `json:"timestamp"`
	} `json:"error"`
}
