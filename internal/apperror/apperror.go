// Package apperror defines the structured application error carried through
// the request pipeline until the error-normalizing middleware.
package apperror

import "net/http"

// Common user-facing messages shared across the pipeline.
const (
	MsgNotFound       = "Resource not found"
	MsgInvalidInput   = "Invalid input provided"
	MsgInternalServer = "Internal server error"
)

// AppError is an error with an HTTP status code attached. IsOperational
// distinguishes expected failures (validation, not-found, conflicts) from
// programmer errors surfacing through the catch-all branch.
type AppError struct {
	Message       string
	StatusCode    int
	IsOperational bool
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates an operational AppError with the given message and status code.
func New(message string, statusCode int) *AppError {
	return &AppError{
		Message:       message,
		StatusCode:    statusCode,
		IsOperational: true,
	}
}

// NewInternal creates a non-operational 500 error for unclassified failures.
func NewInternal(message string) *AppError {
	return &AppError{
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		IsOperational: false,
	}
}

// NotFound returns the canonical 404 error.
func NotFound() *AppError {
	return New(MsgNotFound, http.StatusNotFound)
}
