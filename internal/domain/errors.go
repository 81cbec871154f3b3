// Package domain defines the core task entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Stable application error codes. These travel in failure outputs and
// callback payloads, so their values must never be reassigned.
const (
	CodeUnknown = 10000

	CodeAuthMissingAPIKey = 10101
	CodeAuthInvalidAPIKey = 10102

	CodeTaskIDExists         = 20001
	CodeTaskNotFound         = 20002
	CodeTaskTypeNotSupported = 20003

	CodeInputFormat         = 30001
	CodeOutputFormat        = 30002
	CodeExtractionFailed    = 30003
	CodeTaskExecutionFailed = 30004
	CodeInternal            = 30005
)

// Error is a classified application error: a stable integer code plus a
// human-readable message. Handlers raise it to distinguish known failure
// modes from generic faults; the executor stores the code alongside the
// message in the task's failure output.
type Error struct {
	Code    int
	Message string
}

// NewError creates a classified error with the given code and message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a classified error with a formatted message.
func NewErrorf(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// AsError unwraps a classified *Error from err's chain.
// Returns nil and false when err carries no classification.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
