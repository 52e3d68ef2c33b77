package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured error response of the status listener
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

var (
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// FromAppError converts an application error into a response. Errors that
// are not AppErrors become ErrInternalServer.
func FromAppError(err error) *APIError {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return ErrInternalServer
	}

	status := http.StatusInternalServerError
	switch appErr.Type {
	case ErrTypeNotFound:
		status = http.StatusNotFound
	case ErrTypeValidation, ErrTypeConfig:
		status = http.StatusBadRequest
	case ErrTypeNetwork, ErrTypeStorage:
		status = http.StatusServiceUnavailable
	}
	return NewWithDetails(status, string(appErr.Type), appErr.Message, appErr.Context)
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
