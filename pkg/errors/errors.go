// Package errors provides structured error types for the ArchWeave library.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across readers, writers, and the model façade
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes map onto the failure taxonomy of the serialization core:
//   - MALFORMED_DOCUMENT: structurally invalid input (missing tag/attribute)
//   - UNRESOLVED_REFERENCE: an id reference that never resolves in scope
//   - DUPLICATE_*: identity collisions
//   - INTEGRITY_VIOLATION: a mutation would break a model invariant
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnresolvedReference, "relationship %s: unknown source %s", rid, src)
//	if errors.Is(err, errors.ErrCodeUnresolvedReference) {
//	    // Handle dangling reference
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedDocument, origErr, "view %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document structure errors
	ErrCodeMalformedDocument Code = "MALFORMED_DOCUMENT"

	// Reference resolution errors
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"

	// Identity collisions
	ErrCodeDuplicateForeignID  Code = "DUPLICATE_FOREIGN_ID"
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"

	// Type taxonomy errors
	ErrCodeUnsupportedConceptType Code = "UNSUPPORTED_CONCEPT_TYPE"
	ErrCodeInvalidConceptType     Code = "INVALID_CONCEPT_TYPE"

	// Model invariant errors
	ErrCodeIntegrityViolation Code = "INTEGRITY_VIOLATION"

	// Boundary errors (CLI, file dispatch)
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
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
