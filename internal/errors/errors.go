package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error carrying an HTTP status code and a user facing message.
type Error struct {
	Message string `json:"error"`
	Cause   error  `json:"-"`
	Code    int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func New(cause error, code int, message string) *Error {
	return &Error{Message: message, Cause: cause, Code: code}
}

func Newf(cause error, code int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Cause: cause, Code: code}
}

// Wrap attaches message and code to err. A nil err stays nil.
func Wrap(err error, message string, code int) *Error {
	if err == nil {
		return nil
	}
	return &Error{Message: message, Cause: err, Code: code}
}

// Is and As re-export the standard library helpers so callers need one import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// GetCode returns the HTTP status for err, 500 when it carries none.
func GetCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return http.StatusInternalServerError
}

func InvalidArg(arg string) *Error {
	return Newf(nil, http.StatusBadRequest, "invalid argument: %s", arg)
}

func NotFound(what string) *Error {
	return Newf(nil, http.StatusNotFound, "%s not found", what)
}

func Sealed(cause error) *Error {
	return New(cause, http.StatusConflict, "tally already sealed for export")
}

func ExportFailed(cause error) *Error {
	return New(cause, http.StatusInternalServerError, "export failed")
}

func ResolveFailed(chat string, cause error) *Error {
	return Newf(cause, http.StatusBadGateway, "resolve conversation %s", chat)
}
