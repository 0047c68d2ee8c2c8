// Package domainerrors provides coded errors that cross the service
// boundary. Services create them, transport maps them to HTTP statuses.
// Infrastructure facts (not found, expired) live in pkg/platform/sentinel;
// stores return those and services translate.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the class of a domain error. Codes are stable strings
// exposed in API error envelopes, so changes are breaking.
type Code string

const (
	CodeBadRequest     Code = "bad_request"
	CodeInvalidInput   Code = "invalid_input"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeNotFound       Code = "not_found"
	CodeDuplicateEmail Code = "duplicate_email"
	CodeRateLimited    Code = "rate_limited"
	CodeProviderError  Code = "provider_error"
	CodeInternal       Code = "internal_error"
)

// Error carries a code for transport mapping and a human-readable message.
// An optional cause is preserved for logging but never serialized outward.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable through errors.Unwrap for logs and tests.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err (or anything it wraps) is a domain error carrying
// the given code.
func Is(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// HasCode is an alias for Is; some call sites read better with it.
func HasCode(err error, code Code) bool {
	return Is(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// non-domain errors so unknown failures never leak detail.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}
