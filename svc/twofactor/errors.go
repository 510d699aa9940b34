package twofactor

import "errors"

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrAlreadyEnabled    = errors.New("2FA is already enabled")
	ErrNotSetUp          = errors.New("2FA not set up")
	ErrNotEnabled        = errors.New("2FA is not enabled")
	ErrNotEnrolled       = errors.New("2FA not enabled for this user")
	ErrInvalidCodeFormat = errors.New("invalid OTP format")
	ErrInvalidCode       = errors.New("invalid OTP code")
	ErrInvalidAction     = errors.New("invalid action")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileExists     = errors.New("profile already exists")
	ErrTooManyAttempts   = errors.New("too many attempts")
	// ErrStore wraps every failure of the profile store or of secret sealing.
	ErrStore = errors.New("profile store failure")
)
