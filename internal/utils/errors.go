package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a domain failure that maps directly onto an HTTP response.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NotFound reports that the referenced entity does not resolve.
func NotFound(code, message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: code, Message: message}
}

// Validation reports malformed or missing input.
func Validation(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: message}
}

// Unauthorized reports a missing or bad identity.
func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

// Forbidden reports a policy denial.
func Forbidden(reason string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: reason}
}

// AsAppError extracts an AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Common application errors used across services.
var (
	ErrInvalidCredentials = Unauthorized("invalid credentials")
	ErrInvalidToken       = Unauthorized("invalid or expired token")
	ErrNoValidCartItems   = Validation("no valid cart items")
	ErrProductRequired    = Validation("product id is required")
	ErrProductNotFound    = NotFound("PRODUCT_NOT_FOUND", "product not found")
)
