package twofactor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/pkg/qrcode"
	"github.com/dmitrymomot/rentdesk/pkg/totp"
)

// Action selects what a confirmed code does to the profile.
type Action string

const (
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a == ActionEnable || a == ActionDisable
}

// Provisioning is handed to the user once per setup.
type Provisioning struct {
	URI    string `json:"uri"`
	QRCode string `json:"qrCode"`
}

// Service owns enrollment and disablement of two-factor authentication
// for authenticated users.
type Service struct {
	store  ProfileStore
	engine *totp.Engine
	*options
}

func NewService(store ProfileStore, opts ...Option) *Service {
	o := newOptions(opts)
	return &Service{store: store, engine: o.newEngine(), options: o}
}

// Provision creates a fresh secret for the caller and leaves the profile
// in the pending state. Repeating it before confirmation replaces the
// secret, invalidating previously scanned codes.
func (s *Service) Provision(ctx context.Context, id Identity) (*Provisioning, error) {
	if id.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	profile, err := s.profile(ctx, id.UserID)
	if err != nil {
		s.observe("setup", "error")
		return nil, err
	}
	if profile.TwoFactorEnabled {
		s.observe("setup", "rejected")
		return nil, ErrAlreadyEnabled
	}

	secret, err := s.newSecret()
	if err != nil {
		s.observe("setup", "error")
		return nil, err
	}

	account := id.Email
	if account == "" {
		account = profile.Email
	}
	if account == "" {
		account = id.UserID.String()
	}

	uri, err := totp.GetTOTPURI(totp.TOTPParams{
		Secret:      secret,
		AccountName: account,
		Issuer:      s.issuer,
	})
	if err != nil {
		s.observe("setup", "error")
		return nil, err
	}

	qr, err := qrcode.DataURI(uri, s.qrSize)
	if err != nil {
		s.observe("setup", "error")
		return nil, err
	}

	sealed, err := s.sealer.Seal(secret)
	if err != nil {
		s.observe("setup", "error")
		return nil, errors.Join(ErrStore, err)
	}
	if err := s.store.SaveTwoFactor(ctx, id.UserID, false, &sealed); err != nil {
		s.observe("setup", "error")
		return nil, errors.Join(ErrStore, err)
	}

	s.observe("setup", "success")
	s.log.InfoContext(ctx, "two-factor secret provisioned",
		logger.Component("twofactor"),
		logger.Action("setup"),
		logger.UserID(id.UserID),
	)

	return &Provisioning{URI: uri, QRCode: qr}, nil
}

// Confirm checks code against the stored secret and applies action.
// Enabling keeps the secret, disabling clears it.
func (s *Service) Confirm(ctx context.Context, id Identity, code string, action Action) error {
	if id.UserID == uuid.Nil {
		return ErrUnauthenticated
	}
	// Unknown actions are counted under a fixed name to keep label values bounded.
	op := "confirm"
	if action.Valid() {
		op = string(action)
	}
	if !totp.ValidCode(code) {
		s.observe(op, "invalid_format")
		return ErrInvalidCodeFormat
	}
	if !action.Valid() {
		s.observe(op, "rejected")
		return ErrInvalidAction
	}

	key := attemptKey(op, id.UserID)
	if err := s.allow(ctx, key); err != nil {
		s.observe(op, "throttled")
		return err
	}

	profile, err := s.profile(ctx, id.UserID)
	if err != nil {
		s.observe(op, "error")
		return err
	}
	if profile.TwoFactorSecret == nil {
		s.observe(op, "rejected")
		return ErrNotSetUp
	}
	switch {
	case action == ActionEnable && profile.TwoFactorEnabled:
		s.observe(op, "rejected")
		return ErrAlreadyEnabled
	case action == ActionDisable && !profile.TwoFactorEnabled:
		s.observe(op, "rejected")
		return ErrNotEnabled
	}

	secret, err := s.sealer.Open(*profile.TwoFactorSecret)
	if err != nil {
		s.observe(op, "error")
		return errors.Join(ErrStore, err)
	}

	ok, err := s.engine.Verify(secret, code)
	if err != nil {
		s.observe(op, "error")
		return errors.Join(ErrStore, err)
	}
	if !ok {
		s.observe(op, "invalid_code")
		s.log.WarnContext(ctx, "two-factor code rejected",
			logger.Component("twofactor"),
			logger.Action(op),
			logger.UserID(id.UserID),
		)
		return ErrInvalidCode
	}

	if action == ActionEnable {
		err = s.store.SaveTwoFactor(ctx, id.UserID, true, profile.TwoFactorSecret)
	} else {
		err = s.store.SaveTwoFactor(ctx, id.UserID, false, nil)
	}
	if err != nil {
		s.observe(op, "error")
		return errors.Join(ErrStore, err)
	}

	s.reset(ctx, key)
	s.observe(op, "success")
	s.log.InfoContext(ctx, "two-factor state changed",
		logger.Component("twofactor"),
		logger.Action(op),
		logger.UserID(id.UserID),
		slog.Bool("enabled", action == ActionEnable),
	)
	return nil
}

// Profile returns the caller's profile without its secret.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	p, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Public(), nil
}

// EnsureProfile creates a profile with 2FA disabled unless one exists.
func (s *Service) EnsureProfile(ctx context.Context, userID uuid.UUID, email, role string) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if role == "" {
		role = RoleTenant
	}

	p, err := s.profile(ctx, userID)
	if err == nil {
		return p.Public(), nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	now := s.now()
	p = &Profile{
		UserID:    userID,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateProfile(ctx, p); err != nil && !errors.Is(err, ErrProfileExists) {
		return nil, errors.Join(ErrStore, err)
	}
	return p.Public(), nil
}

func (s *Service) profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return loadProfile(ctx, s.store, userID)
}

func loadProfile(ctx context.Context, r LoginProfileReader, userID uuid.UUID) (*Profile, error) {
	p, err := r.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, errors.Join(ErrStore, err)
	}
	return p, nil
}

func attemptKey(action string, userID uuid.UUID) string {
	return "2fa:" + action + ":" + userID.String()
}

func (o *options) allow(ctx context.Context, key string) error {
	if o.limiter == nil {
		return nil
	}
	res, err := o.limiter.Allow(ctx, key)
	if err != nil {
		o.log.ErrorContext(ctx, "attempt limiter unavailable", logger.Error(err))
		return nil
	}
	if !res.Allowed {
		return ErrTooManyAttempts
	}
	return nil
}

func (o *options) reset(ctx context.Context, key string) {
	if o.limiter == nil {
		return
	}
	if err := o.limiter.Reset(ctx, key); err != nil {
		o.log.WarnContext(ctx, "failed to reset attempt counter", logger.Error(err))
	}
}
