package apperror

import (
	"errors"
	"net/http"
)

// Error carries the HTTP status and the user-facing message for a failed operation.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// Config reports missing server configuration (API key, base URL).
func Config(message string) *Error {
	return New(http.StatusInternalServerError, message, nil)
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

// Upstream reports a transport or semantic failure of a third-party API.
func Upstream(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// From extracts an *Error from err, or returns nil when err is not one.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// MessageOf returns the user-facing message of err, or fallback when err carries none.
func MessageOf(err error, fallback string) string {
	if appErr := From(err); appErr != nil && appErr.Message != "" {
		return appErr.Message
	}
	var msg interface{ UserMessage() string }
	if errors.As(err, &msg) && msg.UserMessage() != "" {
		return msg.UserMessage()
	}
	return fallback
}
