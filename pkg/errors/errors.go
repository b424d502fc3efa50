// Package errors provides structured error types for the Atlan client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the SDK and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Access to the HTTP status and the server's own error code
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are derived from the HTTP status of a failed API call (see [FromStatus])
// or raised locally when a request cannot be built:
//   - INVALID_*: Input or request validation failures
//   - AUTHENTICATION / PERMISSION: credential problems
//   - NOT_FOUND, CONFLICT: resource state
//   - RATE_LIMITED, NETWORK_ERROR, TIMEOUT, API_ERROR: transient failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid GUID: %s", guid)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Asset does not exist
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "calling %s", path)
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidRequest Code = "INVALID_REQUEST"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Credential errors
	ErrCodeAuthentication Code = "AUTHENTICATION"
	ErrCodePermission     Code = "PERMISSION"

	// Resource state errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeConflict Code = "CONFLICT"

	// Transient errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeAPI         Code = "API_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code       Code   // Machine-readable error code
	Message    string // Human-readable message
	Cause      error  // Underlying error (optional)
	Status     int    // HTTP status of the failed call, 0 for local errors
	ServerCode string // Error code reported by Atlan (e.g. "ATLAS-404-00-005")
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.ServerCode != "" {
		msg = fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.ServerCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
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

// CodeForStatus maps an HTTP status code to an error [Code].
func CodeForStatus(status int) Code {
	switch {
	case status == http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case status == http.StatusUnauthorized:
		return ErrCodeAuthentication
	case status == http.StatusForbidden:
		return ErrCodePermission
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return ErrCodeTimeout
	case status >= 500:
		return ErrCodeAPI
	default:
		return ErrCodeInvalidRequest
	}
}

// serverError covers the two body shapes Atlan uses for errors: the metastore
// returns errorCode/errorMessage, the heracles services return code/message.
type serverError struct {
	ErrorCode    string          `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
	Code         json.RawMessage `json:"code"`
	Message      string          `json:"message"`
	Causes       []struct {
		ErrorMessage string `json:"errorMessage"`
	} `json:"causes"`
}

// FromStatus builds an *Error from a failed HTTP response.
// The body is parsed for Atlan's error payload; when it cannot be parsed the
// trimmed body (or the status text) becomes the message.
func FromStatus(status int, body []byte) *Error {
	e := &Error{Code: CodeForStatus(status), Status: status}

	var se serverError
	if len(body) > 0 && json.Unmarshal(body, &se) == nil {
		e.ServerCode = se.ErrorCode
		if e.ServerCode == "" && len(se.Code) > 0 {
			e.ServerCode = strings.Trim(string(se.Code), `"`)
		}
		e.Message = se.ErrorMessage
		if e.Message == "" {
			e.Message = se.Message
		}
		if len(se.Causes) > 0 && se.Causes[0].ErrorMessage != "" {
			e.Message += ": " + se.Causes[0].ErrorMessage
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// StatusOf returns the HTTP status recorded on err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
