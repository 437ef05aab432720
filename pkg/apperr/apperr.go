// Package apperr defines the typed errors shared by the company and payment
// services. Every failure on a mutation path maps to one of these codes so
// HTTP handlers can translate them to stable status codes and clients can
// branch on machine-readable reasons.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the kind of failure.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeInsufficientCredit Code = "INSUFFICIENT_CREDIT"
	CodeAmountExceeded     Code = "AMOUNT_EXCEEDED"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeUnsupportedMethod  Code = "UNSUPPORTED_METHOD"
	CodeGatewayFailure     Code = "GATEWAY_FAILURE"
	CodeInternal           Code = "INTERNAL"
)

// Error is a domain error with a stable code and optional diagnostic details.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a domain error.
func Wrap(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

// WithDetails adds diagnostic key/values (amounts, ids) for operator-facing
// responses.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

// CodeOf extracts the domain code from an error chain. Unknown errors report
// CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Is reports whether the error chain carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps a domain error to an HTTP status code.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument, CodeInsufficientCredit, CodeAmountExceeded:
		return http.StatusBadRequest
	case CodeInvalidState, CodeUnsupportedMethod:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeGatewayFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Details extracts the diagnostic map from an error chain, if present.
func Details(err error) map[string]interface{} {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
