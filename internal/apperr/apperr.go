// Package apperr defines the errors handlers return to API callers.
package apperr

import (
	"errors"
	"net/http"
)

// Error is an API failure carrying the HTTP status it should be rendered with.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// Internal is what callers see for anything unexpected.
var Internal = New(http.StatusInternalServerError, "Something went wrong.")

// From unwraps err into an *Error, falling back to Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal
}
