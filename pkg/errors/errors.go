// Package errors defines the application errors the REST layer maps to
// HTTP statuses and machine-readable codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is implemented by every error that carries an HTTP mapping
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

// Kind classifies an Error
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnavailable
)

var kindInfo = map[Kind]struct {
	status int
	code   string
}{
	KindInternal:    {http.StatusInternalServerError, "INTERNAL_ERROR"},
	KindNotFound:    {http.StatusNotFound, "NOT_FOUND"},
	KindValidation:  {http.StatusBadRequest, "VALIDATION_ERROR"},
	KindConflict:    {http.StatusConflict, "CONFLICT"},
	KindUnavailable: {http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// Error is the concrete application error
type Error struct {
	Kind    Kind
	Subject string // resource, field or dependency the error is about
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindNotFound:
		msg = e.Subject + " not found"
		if e.Message != "" {
			msg = fmt.Sprintf("%s with ID '%s' not found", e.Subject, e.Message)
		}
	case KindValidation:
		msg = "validation error: " + e.Message
		if e.Subject != "" {
			msg = fmt.Sprintf("validation error on field '%s': %s", e.Subject, e.Message)
		}
	case KindConflict:
		msg = e.Subject + " conflict"
		if e.Message != "" {
			msg += ": " + e.Message
		}
	case KindUnavailable:
		msg = e.Subject + " is not configured"
	default:
		msg = e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// HTTPStatus maps the kind to a response status
func (e *Error) HTTPStatus() int { return kindInfo[e.Kind].status }

// Code maps the kind to a response code
func (e *Error) Code() string { return kindInfo[e.Kind].code }

// NewNotFoundError reports a missing resource; id may be empty
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Subject: resource, Message: id}
}

// NewValidationError reports invalid input; field may be empty
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Subject: field, Message: message}
}

// NewConflictError reports a request that clashes with current state
func NewConflictError(resource, reason string) *Error {
	return &Error{Kind: KindConflict, Subject: resource, Message: reason}
}

// NewUnavailableError marks a dependency (database, notifier) that is not configured
func NewUnavailableError(dependency string) *Error {
	return &Error{Kind: KindUnavailable, Subject: dependency}
}

// NewInternalError wraps an unexpected failure
func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf returns the kind of the first Error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindInternal, false
}

func is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return is(err, KindNotFound) }

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return is(err, KindValidation) }

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool { return is(err, KindConflict) }

// GetHTTPStatus returns the HTTP status code for an error, 500 for plain errors
func GetHTTPStatus(err error) int {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// GetErrorCode returns the error code, "UNKNOWN_ERROR" for plain errors
func GetErrorCode(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}
	return "UNKNOWN_ERROR"
}
