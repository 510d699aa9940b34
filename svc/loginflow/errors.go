package loginflow

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrWrongState         = errors.New("operation not allowed in the current login state")
	ErrUnavailable        = errors.New("authentication service unavailable")
	ErrIncompleteSession  = errors.New("sign-in returned an incomplete session")
)
