// Package errors provides structured error types for the workcard renderer.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP service, and batch renders
//   - Machine-readable error codes for per-record outcome reporting
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the failure taxonomy of the renderer:
//   - INVALID_*: Configuration or input validation failures
//   - MALFORMED_RECORD: A work record missing a required field
//   - FONT_LOAD: Typography could not be loaded at construction
//   - ASSET_UNAVAILABLE: A remote asset could not be fetched or decoded
//   - ENCODE_WRITE: The rendered card could not be encoded or written
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedRecord, "record %d has no cover", id)
//	if errors.Is(err, errors.ErrCodeMalformedRecord) {
//	    // Report this record and move on
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEncodeWrite, origErr, "write %s", path)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidVariant Code = "INVALID_VARIANT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Rendering failures
	ErrCodeMalformedRecord  Code = "MALFORMED_RECORD"
	ErrCodeFontLoad         Code = "FONT_LOAD"
	ErrCodeAssetUnavailable Code = "ASSET_UNAVAILABLE"
	ErrCodeEncodeWrite      Code = "ENCODE_WRITE"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
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
