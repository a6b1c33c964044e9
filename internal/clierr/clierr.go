// Package clierr carries the machine-readable error codes the CLI reports.
// Scripts match on Code; Message is for people.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Codes are stable identifiers written in JSON error output.
const (
	TaskNotFound       = "TASK_NOT_FOUND"
	ColumnNotFound     = "COLUMN_NOT_FOUND"
	BoardNotFound      = "BOARD_NOT_FOUND"
	BoardAlreadyExists = "BOARD_ALREADY_EXISTS"
	InvalidInput       = "INVALID_INPUT"
	InvalidDate        = "INVALID_DATE"
	InvalidPosition    = "INVALID_POSITION"
	ValidationFailed   = "VALIDATION_FAILED"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	InternalError      = "INTERNAL_ERROR"
)

// Process exit codes.
const (
	ExitFailure  = 1
	ExitInternal = 2
)

// Error is a coded failure. Cause, when set, is reachable through errors.Unwrap.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with a format string.
func Newf(code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap codes err, keeping its message.
func Wrap(code string, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Cause: err}
}

// WithDetails attaches details and returns e.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode maps the code to a process exit status.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return ExitInternal
	}
	return ExitFailure
}

// From returns the *Error in err's chain, or wraps err as InternalError.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(InternalError, err)
}

// HasCode reports whether err's chain holds an *Error with code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsNotFound is true for task and column misses.
func IsNotFound(err error) bool {
	return HasCode(err, TaskNotFound) || HasCode(err, ColumnNotFound)
}

// SilentError exits with Code and prints nothing; the command already wrote its output.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string { return "exit status " + strconv.Itoa(e.Code) }
