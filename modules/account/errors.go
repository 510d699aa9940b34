package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/rentdesk/handler"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

var ErrMissingCredentials = handler.NewHTTPError(http.StatusBadRequest, "Email and password are required")

// MapError translates directory and profile errors into HTTP responses.
func MapError(err error) (handler.HTTPError, bool) {
	switch {
	case errors.Is(err, auth.ErrStorage), errors.Is(err, twofactor.ErrStore):
		return handler.ErrInternal, true
	case errors.Is(err, auth.ErrInvalidCredentials):
		return handler.NewHTTPError(http.StatusBadRequest, "Invalid login credentials"), true
	case errors.Is(err, auth.ErrNoSession), errors.Is(err, twofactor.ErrUnauthenticated):
		return handler.ErrUnauthorized, true
	case errors.Is(err, twofactor.ErrProfileNotFound), errors.Is(err, auth.ErrUserNotFound):
		return handler.NewHTTPError(http.StatusNotFound, "Profile not found"), true
	}
	return handler.HTTPError{}, false
}
