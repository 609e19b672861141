// Package util provides logging helpers and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the engine
var (
	ErrNotConnected     = errors.New("device not connected")
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrRenderFailed     = errors.New("template rendering failed")
	ErrUnreachable      = errors.New("device unreachable")
	ErrCommandRejected  = errors.New("command rejected by device")
	ErrUnknownTest      = errors.New("unknown test")
)

// RenderError reports an unresolved or unknown placeholder during template
// rendering. It is attributed to the owning test, never to a device.
type RenderError struct {
	Template    string
	Placeholder string
	Reason      string // "unfilled" or "unknown"
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %q: %s placeholder {%s}", e.Template, e.Reason, e.Placeholder)
}

func (e *RenderError) Unwrap() error {
	return ErrRenderFailed
}

// ValidationError represents one or more input validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
