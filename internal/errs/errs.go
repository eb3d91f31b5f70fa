package errs

import (
	"errors"
	"net/http"
)

// Code is an application error code.
type Code string

const (
	InvalidArgument    Code = "invalid_argument"
	NotFound           Code = "not_found"
	FailedPrecondition Code = "failed_precondition"
	PermissionDenied   Code = "permission_denied"
	Unavailable        Code = "unavailable"
	Internal           Code = "internal"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// CodeOf returns the error code, defaulting to internal.
func CodeOf(err error) Code {
	if err == nil {
		return Internal
	}
	var coded *Error
	if errors.As(err, &coded) {
		if coded.Code == "" {
			return Internal
		}
		return coded.Code
	}
	return Internal
}

// IsNotFound reports whether err carries the not_found code.
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == NotFound
}

// FromHTTPStatus classifies a backend response status that was not expected
// by the caller. Statuses the caller treats as success never reach here.
func FromHTTPStatus(status int, message string) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return New(InvalidArgument, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return New(PermissionDenied, message)
	case http.StatusNotFound:
		return New(NotFound, message)
	case http.StatusConflict:
		return New(FailedPrecondition, message)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return New(Unavailable, message)
	default:
		return New(Internal, message)
	}
}
