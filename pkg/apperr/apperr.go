package apperr

import (
	"fmt"
	"net/http"
)

// Error is the typed domain error surfaced by services. Controllers map it
// onto the HTTP envelope; the services themselves know nothing about HTTP
// beyond the conventional status code.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Validation(msg string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: msg}
}

func NotFound(resource, msg string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Code: resource + "_NOT_FOUND", Message: msg}
}

func UserExists(msg string) *Error {
	return &Error{StatusCode: http.StatusConflict, Code: "USER_EXISTS", Message: msg}
}

func Internal(msg string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: msg}
}

// From wraps any error: typed errors pass through, everything else becomes
// an INTERNAL_ERROR.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*Error); ok {
		return ae
	}
	return Internal(err.Error())
}
