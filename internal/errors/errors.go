package errors

import (
	goerrors "errors"
	"fmt"
)

// ErrorCode represents an Imprint error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrUnknownMessage    ErrorCode = "UNKNOWN_MESSAGE"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrInternal          ErrorCode = "INTERNAL"            // 500
)

// ImprintError represents a structured error with code, status, and details.
type ImprintError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ImprintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ImprintError {
	return &ImprintError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownMessage creates a 400 error for unrecognized message types.
func NewUnknownMessage(msgType string) *ImprintError {
	return &ImprintError{
		Code:    ErrUnknownMessage,
		Status:  400,
		Message: "Unknown message type",
		Details: map[string]any{"type": msgType},
	}
}

// NewNotFound creates a 404 error for a record or tag that cannot be found.
func NewNotFound(identifier string) *ImprintError {
	return &ImprintError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewNameAlreadyExists creates a 409 error for tag name collisions.
func NewNameAlreadyExists(name string) *ImprintError {
	return &ImprintError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("tag with name %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ImprintError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ImprintError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is an ImprintError with the given code.
// Wrapped ImprintErrors are unwrapped first.
func Is(err error, code ErrorCode) bool {
	var iErr *ImprintError
	if goerrors.As(err, &iErr) {
		return iErr.Code == code
	}
	return false
}
