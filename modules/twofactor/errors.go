package twofactor

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/rentdesk/handler"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

var (
	ErrMissingFields = handler.NewHTTPError(http.StatusBadRequest, "Missing userId or otp")
	ErrMissingUserID = handler.NewHTTPError(http.StatusBadRequest, "Missing userId")
	ErrInvalidUserID = handler.NewHTTPError(http.StatusBadRequest, "Invalid userId")
)

var errorTable = []struct {
	err  error
	resp handler.HTTPError
}{
	{twofactor.ErrStore, handler.ErrInternal},
	{twofactor.ErrUnauthenticated, handler.ErrUnauthorized},
	{twofactor.ErrTooManyAttempts, handler.ErrTooManyRequests},
	{twofactor.ErrProfileNotFound, handler.NewHTTPError(http.StatusNotFound, "Profile not found")},
	{twofactor.ErrAlreadyEnabled, handler.NewHTTPError(http.StatusBadRequest, "2FA is already enabled")},
	{twofactor.ErrNotSetUp, handler.NewHTTPError(http.StatusBadRequest, "2FA not set up")},
	{twofactor.ErrNotEnabled, handler.NewHTTPError(http.StatusBadRequest, "2FA is not enabled")},
	{twofactor.ErrNotEnrolled, handler.NewHTTPError(http.StatusBadRequest, "2FA not enabled for this user")},
	{twofactor.ErrInvalidCodeFormat, handler.NewHTTPError(http.StatusBadRequest, "Invalid OTP format")},
	{twofactor.ErrInvalidCode, handler.NewHTTPError(http.StatusBadRequest, "Invalid OTP code")},
	{twofactor.ErrInvalidAction, handler.NewHTTPError(http.StatusBadRequest, "Invalid action")},
}

// MapError translates twofactor errors into HTTP responses.
func MapError(err error) (handler.HTTPError, bool) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.resp, true
		}
	}
	return handler.HTTPError{}, false
}
