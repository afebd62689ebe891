package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for the HTTP layer
type ErrorCode string

const (
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound     ErrorCode = "ROLE_NOT_FOUND"
)

// Error carries a code and a client-facing message around an optional cause
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// WrapIf wraps err with code only when it matches target, so a lookup miss gets
// its status while store failures pass through untouched.
func WrapIf(err, target error, code ErrorCode, message string) error {
	if !errors.Is(err, target) {
		return err
	}
	return Wrap(err, code, message)
}

func InvalidInput(field, reason string) *Error {
	return Newf(ErrCodeInvalidInput, "invalid %s: %s", field, reason)
}

func InternalWrap(err error, message string) error {
	return Wrap(err, ErrCodeInternal, message)
}

// IsCode reports whether any *Error in err's chain has code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of err, or ErrCodeInternal for unstructured errors
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetMessage returns the message safe to show a client. Unstructured errors yield
// the generic status text so store internals are not leaked.
func GetMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}

func HTTPStatus(err error) int {
	return MapErrorCodeToHTTPStatus(GetCode(err))
}

func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeUnsupportedMedia:
		return http.StatusBadRequest
	case ErrCodeUserNotFound, ErrCodeRoleNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
