// Package errors defines the closed set of classified failure kinds for
// the NextGen API and the mapping from each kind to its wire status code.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Error Kinds
// ==========================

// Kind is a stable wire-level error identifier. Callers branch on these
// strings, so existing values are never renamed.
type Kind string

const (
	KindInvalidPayload        Kind = "INVALID_PAYLOAD"
	KindCrossFieldViolation   Kind = "CROSS_FIELD_VIOLATION"
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindForbidden             Kind = "FORBIDDEN"
	KindNotFound              Kind = "NOT_FOUND"
	KindConflict              Kind = "CONFLICT"
	KindDownstreamUnavailable Kind = "DOWNSTREAM_UNAVAILABLE"
	KindDownstreamTimeout     Kind = "DOWNSTREAM_TIMEOUT"
	KindProviderFailure       Kind = "PROVIDER_FAILURE"
	KindInternal              Kind = "INTERNAL"
)

// StatusProviderFailure is the non-standard code for an upstream provider
// that answered with an internal failure of its own.
const StatusProviderFailure = 520

var statusByKind = map[Kind]int{
	KindInvalidPayload:        http.StatusBadRequest,
	KindCrossFieldViolation:   http.StatusBadRequest,
	KindUnauthorized:          http.StatusUnauthorized,
	KindForbidden:             http.StatusForbidden,
	KindNotFound:              http.StatusNotFound,
	KindConflict:              http.StatusConflict,
	KindDownstreamUnavailable: http.StatusServiceUnavailable,
	KindDownstreamTimeout:     http.StatusGatewayTimeout,
	KindProviderFailure:       StatusProviderFailure,
	KindInternal:              http.StatusInternalServerError,
}

var defaultMessage = map[Kind]string{
	KindInvalidPayload:        "Request payload failed validation",
	KindCrossFieldViolation:   "Request payload violates a cross-field rule",
	KindUnauthorized:          "Authentication required",
	KindForbidden:             "Caller lacks permission for this operation",
	KindNotFound:              "Requested resource not found",
	KindConflict:              "Resource state conflict",
	KindDownstreamUnavailable: "Task processor is unreachable",
	KindDownstreamTimeout:     "Task processor did not respond in time",
	KindProviderFailure:       "Task processor returned an internal failure",
	KindInternal:              "Internal server error",
}

// Status returns the wire status code for a kind. Unknown kinds map to 500.
func Status(k Kind) int {
	if code, ok := statusByKind[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// IsKnown reports whether k belongs to the closed kind set.
func IsKnown(k Kind) bool {
	_, ok := statusByKind[k]
	return ok
}

// ==========================
// 2. Classified Error Type
// ==========================

// Error is a classified application error. Every failure that crosses a
// package boundary in this service is an *Error; anything else is coerced
// to KindInternal at the dispatch boundary.
type Error struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the original cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the wire status code for this error's kind.
func (e *Error) Status() int {
	return Status(e.Kind)
}

// New creates a classified error with the kind's default message.
func New(kind Kind) *Error {
	return &Error{
		Kind:      kind,
		Message:   defaultMessage[kind],
		Timestamp: time.Now().UTC(),
	}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now().UTC(),
	}
}

// Wrap classifies an underlying error, keeping its text as operator detail.
// The detail stays out of the wire message so internal causes never leak.
func Wrap(kind Kind, cause error) *Error {
	e := New(kind)
	if cause != nil {
		e.Details = cause.Error()
		e.cause = cause
	}
	return e
}

// ==========================
// 3. Constructors
// ==========================

// NewInvalidPayload creates a validation failure error.
func NewInvalidPayload(details string) *Error {
	e := New(KindInvalidPayload)
	e.Details = details
	return e
}

// NewCrossFieldViolation creates a cross-field rule failure error.
func NewCrossFieldViolation(details string) *Error {
	e := New(KindCrossFieldViolation)
	e.Details = details
	return e
}

// NewDownstreamTimeout creates a processor timeout error.
func NewDownstreamTimeout(cause error) *Error {
	return Wrap(KindDownstreamTimeout, cause)
}

// NewDownstreamUnavailable creates a processor unreachable error.
func NewDownstreamUnavailable(cause error) *Error {
	return Wrap(KindDownstreamUnavailable, cause)
}

// NewProviderFailure creates an upstream provider failure error.
func NewProviderFailure(cause error) *Error {
	return Wrap(KindProviderFailure, cause)
}

// NewNotFound creates a missing resource error.
func NewNotFound(details string) *Error {
	e := New(KindNotFound)
	e.Details = details
	return e
}

// ==========================
// 4. Last-Resort Coercion
// ==========================

// Coerce returns err as a classified *Error. Already-classified errors pass
// through unchanged so a processor's diagnosis is preserved; anything else
// becomes KindInternal with the cause retained for logging. Coerce(nil)
// returns nil.
func Coerce(err error) *Error {
	if err == nil {
		return nil
	}
	if classified, ok := err.(*Error); ok {
		return classified
	}
	return Wrap(KindInternal, err)
}
