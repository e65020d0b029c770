// Package errors provides structured error types for bartree.
//
// Every failure the codec can report carries a machine-readable [Code], so
// callers can tell a content problem (a bar that cannot be grouped) from a
// contract violation (attaching a child to a leaf) without string matching.
//
// # Error Codes
//
// Structural codes mirror the tree and codec contracts:
//   - NEGATIVE_DURATION: a subtraction went below zero
//   - INVALID_CHILD: a child was attached where children are not allowed
//   - DISJOINT_NODES: two nodes do not share a root
//   - UNGROUPABLE_SPAN: no allowed division groups a time range
//   - MISALIGNED_EVENT: an event straddles a grouping boundary
//   - INVALID_WINDOW_SIZE: a window size is out of range
//   - INCOMPLETE_NODE: a node's children do not fill its span
//
// INVALID_* codes cover input validation, INTERNAL_ERROR everything else.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidChild, "leaf %q cannot have children", label)
//	if errors.Is(err, errors.ErrCodeInvalidChild) {
//	    // Handle contract violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors
	ErrCodeNegativeDuration  Code = "NEGATIVE_DURATION"
	ErrCodeInvalidChild      Code = "INVALID_CHILD"
	ErrCodeDisjointNodes     Code = "DISJOINT_NODES"
	ErrCodeUngroupableSpan   Code = "UNGROUPABLE_SPAN"
	ErrCodeMisalignedEvent   Code = "MISALIGNED_EVENT"
	ErrCodeInvalidWindowSize Code = "INVALID_WINDOW_SIZE"
	ErrCodeIncompleteNode    Code = "INCOMPLETE_NODE"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDuration Code = "INVALID_DURATION"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

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

// IsContractViolation reports whether err signals a broken structural
// invariant rather than a property of the musical content.
func IsContractViolation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidChild, ErrCodeNegativeDuration, ErrCodeIncompleteNode, ErrCodeDisjointNodes:
		return true
	}
	return false
}
