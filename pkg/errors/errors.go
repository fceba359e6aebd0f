// Package errors provides structured error types for the recyclist engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Configuration validation failures (fatal, fail fast)
//   - OUT_OF_RANGE: Index outside the item range (reported, state intact)
//   - UNKNOWN_TYPE: The size oracle returned an unusable layout type (fatal)
//   - SNAPSHOT_*: Layout snapshot import/export failures
//   - INTERNAL_ERROR: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfRange, "index %d outside [0, %d)", i, n)
//	if errors.Is(err, errors.ErrCodeOutOfRange) {
//	    // Handle range error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSnapshot, origErr, "load snapshot %s", token)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors. These are fatal: the engine refuses to operate
	// with a zero-size viewport axis or a missing collaborator.
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidColumns   Code = "INVALID_COLUMNS"

	// Range errors. Reported to the caller without corrupting engine state.
	ErrCodeOutOfRange Code = "OUT_OF_RANGE"

	// Type resolution errors. An unknown layout type cannot be sized or
	// recycled, so these are fatal.
	ErrCodeUnknownType Code = "UNKNOWN_TYPE"

	// Snapshot errors.
	ErrCodeSnapshot         Code = "SNAPSHOT_ERROR"
	ErrCodeSnapshotMismatch Code = "SNAPSHOT_MISMATCH"

	// Storage errors.
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
