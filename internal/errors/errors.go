package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	// ErrUnavailable marks a telemetry source or daemon that is absent.
	// Expected and silent: the affected field renders as N/A.
	ErrUnavailable = "UNAVAILABLE"
	// ErrTimeout marks transient slowness; the poll is retried next tick.
	ErrTimeout = "TIMEOUT"
	// ErrPermission marks a mutation rejected by the capability gate
	// before any external call was attempted.
	ErrPermission = "PERMISSION"
	// ErrExternal marks a control-plane command that ran and failed;
	// its stderr is surfaced verbatim.
	ErrExternal = "EXTERNAL"
	// ErrParse marks malformed external data. The operation is rejected
	// rather than guessed at.
	ErrParse = "PARSE"
	// ErrConfig marks invalid configuration or flags.
	ErrConfig = "CONFIG"
)

// Error represents a structured error with code, message, suggestion, and
// optional cause. Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrExternal code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrExternal,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewPermissionDenied creates the uniform insufficient-privilege error for a
// rejected mutation. The operation name identifies what was blocked.
func NewPermissionDenied(operation string) *Error {
	return &Error{
		Code:       ErrPermission,
		Message:    fmt.Sprintf("Insufficient privileges for %s", operation),
		Suggestion: "Run as root or configure passwordless sudo, then restart",
	}
}

// NewUnavailable creates an error for an absent telemetry source.
func NewUnavailable(source, reason string) *Error {
	return &Error{
		Code:    ErrUnavailable,
		Message: fmt.Sprintf("%s is unavailable", source),
		Cause:   errors.New(reason),
	}
}

// Error implements the error interface with formatted multi-line output.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Code == code
	}
	return false
}

// CodeOf returns the code of a structured Error, or empty string for nil
// and foreign error types.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Code
	}
	return ""
}

// ExitError carries a process exit code so the CLI can propagate the status
// of a failed external command.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts an exit code from an error chain.
// Returns (code, true) when an ExitError is present, (0, false) otherwise.
func GetExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
