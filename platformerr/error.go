// Package platformerr provides structured error types for platform operations.
//
// This package defines standard error codes and a structured Error type
// that includes platform context, operation details, error codes, and cause
// chains. It integrates with Go's standard errors package for error wrapping
// and unwrapping, and carries the full failure taxonomy used by the
// aggregation layer: configuration misuse, lookup misses, per-call timeouts
// and transport failures.
package platformerr

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error codes used across platform operations for consistent
// error reporting.
const (
	// ErrCodeNotConfigured indicates no platform clients are registered
	ErrCodeNotConfigured = "NOT_CONFIGURED"

	// ErrCodePlatformNotFound indicates the requested platform id is absent
	ErrCodePlatformNotFound = "PLATFORM_NOT_FOUND"

	// ErrCodeTimeout indicates a per-call deadline was exceeded
	ErrCodeTimeout = "TIMEOUT"

	// ErrCodeTransportFailure indicates the underlying platform client failed
	ErrCodeTransportFailure = "TRANSPORT_FAILURE"

	// ErrCodeUnknownPlatform indicates an unregistered platform type was requested
	ErrCodeUnknownPlatform = "UNKNOWN_PLATFORM"

	// ErrCodeMissingParameters indicates a required request parameter is absent
	ErrCodeMissingParameters = "MISSING_PARAMETERS"
)

// Error is a structured error type for platform operations.
// It provides context about which platform and operation failed,
// includes a standard error code, and can wrap underlying errors.
type Error struct {
	// Platform is the id of the platform instance the error relates to,
	// empty for errors that are not tied to a single platform
	Platform string

	// Operation is the specific operation that failed
	Operation string

	// Code is a standard error code constant
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains additional context as key-value pairs
	Details map[string]any

	// Cause is the underlying error that caused this error
	Cause error
}

// New creates a new structured platform error.
//
// Parameters:
//   - platform: id of the platform instance (may be empty)
//   - operation: operation that failed (e.g., "fetch", "test_connection")
//   - code: error code constant (e.g., ErrCodeTimeout)
//   - message: human-readable error description
//
// Example:
//
//	err := platformerr.New("octi-prod", "fetch", platformerr.ErrCodeTimeout, "fetch timed out after 10s")
func New(platform, operation, code, message string) *Error {
	return &Error{
		Platform:  platform,
		Operation: operation,
		Code:      code,
		Message:   message,
	}
}

// WithCause adds an underlying error to this error.
// This method returns the same error instance for method chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails adds additional context to this error.
// This method returns the same error instance for method chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Error implements the error interface.
// It formats the error as: "platform [operation/code]: message: cause"
//
// Examples:
//   - "octi-prod [fetch/TIMEOUT]: fetch timed out after 10s"
//   - "oaev-lab [test_connection/TRANSPORT_FAILURE]: probe failed: connection refused"
func (e *Error) Error() string {
	var parts []string

	if e.Platform != "" {
		parts = append(parts, fmt.Sprintf("%s [%s/%s]", e.Platform, e.Operation, e.Code))
	} else {
		parts = append(parts, fmt.Sprintf("[%s/%s]", e.Operation, e.Code))
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause error.
// This enables errors.Is() and errors.As() to work with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
// Two Error values are considered equal if they have the same Platform,
// Operation, and Code. A target with an empty Platform or Operation matches
// any value for that field, so sentinel-style comparisons on Code alone work:
//
//	errors.Is(err, &platformerr.Error{Code: platformerr.ErrCodeTimeout})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" && e.Code != t.Code {
		return false
	}
	if t.Platform != "" && e.Platform != t.Platform {
		return false
	}
	if t.Operation != "" && e.Operation != t.Operation {
		return false
	}
	return t.Code != "" || t.Platform != "" || t.Operation != ""
}

// As implements error type assertion for errors.As().
// This allows errors.As() to extract the Error type from wrapped errors.
func (e *Error) As(target any) bool {
	t, ok := target.(**Error)
	if !ok {
		return false
	}
	*t = e
	return true
}

// Sentinel errors for common scenarios. These can be used directly with
// errors.Is() when the structured context of *Error is not needed.
var (
	// ErrNotConfigured is returned when no platform clients are registered
	ErrNotConfigured = errors.New("no platforms configured")

	// ErrPlatformNotFound is returned when a requested platform id is absent
	ErrPlatformNotFound = errors.New("platform not found")

	// ErrUnknownPlatform is returned when a platform type is not registered
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrMissingParameters is returned when a required parameter is absent
	ErrMissingParameters = errors.New("missing required parameters")

	// ErrTimeout is returned when a per-call deadline is exceeded
	ErrTimeout = errors.New("operation timed out")
)

// Timeout creates a structured timeout error for the given platform and
// operation, wrapping ErrTimeout so errors.Is(err, ErrTimeout) holds.
func Timeout(platform, operation string, message string) *Error {
	return New(platform, operation, ErrCodeTimeout, message).WithCause(ErrTimeout)
}

// Transport creates a structured transport-failure error for the given
// platform and operation, wrapping the client's underlying error.
func Transport(platform, operation string, cause error) *Error {
	return &Error{
		Platform:  platform,
		Operation: operation,
		Code:      ErrCodeTransportFailure,
		Cause:     cause,
	}
}

// UserMessage returns the short human-readable text callers are allowed to
// see. Only the message of the error chain is exposed, never stack detail
// or structured context.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Message != "" {
			return pe.Message
		}
		if pe.Cause != nil {
			return pe.Cause.Error()
		}
	}
	return err.Error()
}
