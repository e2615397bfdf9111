// Package errors provides structured error types for pandoradep.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the resolution engine
//   - Machine-readable error codes for programmatic handling
//   - Operator-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - UNKNOWN_* / NOT_FOUND: Resource not found
//   - REGISTRY_* / AMBIGUOUS_*: Registry snapshot problems
//   - VERSION_CONFLICT: Disagreeing version constraints during resolution
//   - INTERNAL_*: Unexpected internal errors
//
// Every code is fatal to the current run; nothing in pandoradep retries.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownRepo, "%s is not a PANDORA repo", name)
//	if errors.Is(err, errors.ErrCodeUnknownRepo) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRegistryUnavailable, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Registry errors
	ErrCodeRegistryUnavailable Code = "REGISTRY_UNAVAILABLE"
	ErrCodeAmbiguousOwnership  Code = "AMBIGUOUS_OWNERSHIP"
	ErrCodeUnknownRepo         Code = "UNKNOWN_REPO"

	// Resolution errors
	ErrCodeVersionConflict Code = "VERSION_CONFLICT"

	// Persistence and checkout errors
	ErrCodeInvalidPersistenceEnv Code = "INVALID_PERSISTENCE_ENV"
	ErrCodeVCS                   Code = "VCS_ERROR"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// As is a re-export of the standard library errors.As so callers that import
// this package under the name "errors" keep access to it.
func As(err error, target any) bool {
	return errors.As(err, target)
}
