// Package httperr defines the typed errors the application raises deep
// in the call stack and translates to HTTP responses exactly once, at
// the request boundary.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the classification and HTTP status for a request
// failure. Handlers, middleware, and the upstream client return *Error
// values; the boundary (middleware.ErrorBoundary for the outer chain,
// middleware.ErrorHandler inside the router) maps them to JSON bodies.
type Error struct {
	Name    string // stable machine-readable classification, e.g. "DuplicateNonceError"
	Status  int
	Message string
	Err     error // wrapped cause, logged server-side only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// MissingNonce classifies a request that omitted or blanked the replay
// token header.
func MissingNonce(header string) *Error {
	return &Error{
		Name:    "MissingNonceError",
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Missing required %s header", header),
	}
}

// DuplicateNonce classifies a replayed token. The offending value is
// part of the message for observability.
func DuplicateNonce(nonce string) *Error {
	return &Error{
		Name:    "DuplicateNonceError",
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Nonce already used: %s", nonce),
	}
}

// Validation classifies a malformed request parameter. The message
// names the offending field.
func Validation(message string) *Error {
	return &Error{Name: "ValidationError", Status: http.StatusBadRequest, Message: message}
}

// RateLimited classifies a client that exceeded its request budget for
// the current window.
func RateLimited() *Error {
	return &Error{Name: "RateLimitError", Status: http.StatusTooManyRequests, Message: "Rate limit exceeded"}
}

// NotFound classifies an unknown route or an empty result.
func NotFound(message string) *Error {
	return &Error{Name: "NotFoundError", Status: http.StatusNotFound, Message: message}
}

// Upstream classifies a non-success response from the data provider.
// The upstream status is surfaced when it is a sensible HTTP status,
// otherwise the failure degrades to a 500.
func Upstream(upstreamStatus int, message string, err error) *Error {
	status := http.StatusInternalServerError
	if upstreamStatus >= 400 && upstreamStatus <= 599 {
		status = upstreamStatus
	}
	return &Error{Name: "UpstreamApiError", Status: status, Message: message, Err: err}
}

// Internal classifies everything else. The cause is kept for logging;
// the client-facing message leaks no internal detail.
func Internal(err error) *Error {
	return &Error{
		Name:    "InternalServerError",
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}

// FromError returns err's *Error classification, wrapping unclassified
// errors as Internal.
func FromError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
