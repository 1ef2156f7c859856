// Package errors provides the structured error type used across termfolio's
// infrastructure: configuration, profile loading, version descriptor fetches
// and the HTTP server. Errors that reach a visitor's terminal are never of this
// type; the terminal only ever renders "matched" or "not found" output.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// TermError is a structured error type with context.
type TermError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *TermError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *TermError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *TermError) Is(target error) bool {
	var t *TermError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *TermError) WithContext(key string, value interface{}) *TermError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *TermError) WithComponent(component string) *TermError {
	e.Component = component

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *TermError {
	return &TermError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *TermError {
	return &TermError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *TermError {
	return &TermError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewNetworkError creates a network error. Network errors are usually
// transient, so they are marked recoverable.
func NewNetworkError(code, message string, cause error) *TermError {
	return &TermError{
		Type:        ErrorTypeNetwork,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *TermError {
	return &TermError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var te *TermError
	if errors.As(err, &te) {
		return te.Recoverable
	}

	return false
}

// HasErrorType reports whether any error in the chain is a TermError of the given type.
func HasErrorType(err error, errType ErrorType) bool {
	var te *TermError
	if errors.As(err, &te) {
		return te.Type == errType
	}

	return false
}

// HasErrorCode reports whether any error in the chain carries the given code.
func HasErrorCode(err error, code string) bool {
	for err != nil {
		var te *TermError
		if !errors.As(err, &te) {
			return false
		}
		if te.Code == code {
			return true
		}
		err = te.Cause
	}

	return false
}
