package twofactor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/pkg/totp"
)

// LoginVerifier checks second-factor codes for users whose password was
// accepted but whose session is not yet trusted. It only reads profiles.
type LoginVerifier struct {
	reader LoginProfileReader
	engine *totp.Engine
	*options
}

func NewLoginVerifier(reader LoginProfileReader, opts ...Option) *LoginVerifier {
	o := newOptions(opts)
	return &LoginVerifier{reader: reader, engine: o.newEngine(), options: o}
}

// VerifyLogin reports whether code is currently valid for userID.
// A wrong code yields (false, nil); everything else that prevents a
// decision is an error.
func (v *LoginVerifier) VerifyLogin(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	if userID == uuid.Nil {
		return false, ErrProfileNotFound
	}
	if !totp.ValidCode(code) {
		v.observe("login", "invalid_format")
		return false, ErrInvalidCodeFormat
	}

	key := attemptKey("login", userID)
	if err := v.allow(ctx, key); err != nil {
		v.observe("login", "throttled")
		return false, err
	}

	profile, err := loadProfile(ctx, v.reader, userID)
	if err != nil {
		v.observe("login", "error")
		return false, err
	}
	if !profile.TwoFactorEnabled || profile.TwoFactorSecret == nil {
		v.observe("login", "rejected")
		return false, ErrNotEnrolled
	}

	secret, err := v.sealer.Open(*profile.TwoFactorSecret)
	if err != nil {
		v.observe("login", "error")
		return false, errors.Join(ErrStore, err)
	}

	ok, err := v.engine.Verify(secret, code)
	if err != nil {
		v.observe("login", "error")
		return false, errors.Join(ErrStore, err)
	}
	if !ok {
		v.observe("login", "invalid_code")
		v.log.WarnContext(ctx, "login code rejected",
			logger.Component("twofactor"),
			logger.Action("login"),
			logger.UserID(userID),
		)
		return false, nil
	}

	v.reset(ctx, key)
	v.observe("login", "success")
	return true, nil
}

// Status reports whether userID has two-factor enabled. Unknown users
// report false.
func (v *LoginVerifier) Status(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	profile, err := loadProfile(ctx, v.reader, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.TwoFactorEnabled, nil
}
