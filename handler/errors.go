package handler

import (
	"errors"
	"net/http"
)

// HTTPError carries the status code and the short client-facing message.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string { return e.Key }

func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}

var (
	ErrBadRequest      = HTTPError{Code: http.StatusBadRequest, Key: "Invalid request"}
	ErrUnauthorized    = HTTPError{Code: http.StatusUnauthorized, Key: "Unauthorized"}
	ErrNotFound        = HTTPError{Code: http.StatusNotFound, Key: "Not found"}
	ErrTooManyRequests = HTTPError{Code: http.StatusTooManyRequests, Key: "Too many attempts, try again later"}
	ErrInternal        = HTTPError{Code: http.StatusInternalServerError, Key: "Internal server error"}
)

var ErrNilResponse = errors.New("handler returned nil response")
