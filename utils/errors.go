package utils

import (
	"errors"
	"net/http"
)

type ErrorCode string

// Stable reason codes returned to API clients.
const (
	CodeNotFound          ErrorCode = "not_found"
	CodeInvalidTransition ErrorCode = "invalid_transition"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeConflict          ErrorCode = "conflict"
	CodeValidation        ErrorCode = "validation_error"
	CodeInternal          ErrorCode = "internal_error"
)

// AppError is a typed rejection carrying a stable code. Two AppErrors match
// under errors.Is when their codes are equal, so callers can compare against
// the sentinels below regardless of the message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

var (
	ErrNotFound          = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrInvalidTransition = &AppError{Code: CodeInvalidTransition, Message: "invalid state transition"}
	ErrUnauthorized      = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrConflict          = &AppError{Code: CodeConflict, Message: "concurrent modification, retry"}
	ErrValidation        = &AppError{Code: CodeValidation, Message: "invalid request"}
)

func NewError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// WrapError keeps err reachable through errors.Unwrap while presenting code to clients.
func WrapError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HTTPStatus memetakan error ke status HTTP.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidTransition, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCodeOf returns the reason code of err, CodeInternal for untyped errors.
func ErrorCodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
