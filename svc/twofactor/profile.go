package twofactor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleTenant  = "tenant"
)

// Profile is the per-user record holding the two-factor state.
//
// TwoFactorSecret is nil when the user never enrolled or disabled 2FA, and
// set both while enrollment is pending and once it is enabled. Stores hold
// it in sealed form.
type Profile struct {
	UserID           uuid.UUID
	Email            string
	Role             string
	TwoFactorEnabled bool
	TwoFactorSecret  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Pending reports whether a secret was provisioned but not yet confirmed.
func (p *Profile) Pending() bool {
	return !p.TwoFactorEnabled && p.TwoFactorSecret != nil
}

// Public returns a copy without the secret.
func (p *Profile) Public() *Profile {
	cp := *p
	cp.TwoFactorSecret = nil
	return &cp
}

// Identity is the authenticated caller of session-bound operations.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// LoginProfileReader is the narrow read-only capability used before a
// session exists. Implementations should run under a dedicated service
// credential.
type LoginProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

// ProfileStore is the session-bound profile storage. Get returns
// ErrProfileNotFound for unknown users. Writes are last-write-wins.
type ProfileStore interface {
	LoginProfileReader
	CreateProfile(ctx context.Context, p *Profile) error
	SaveTwoFactor(ctx context.Context, userID uuid.UUID, enabled bool, sealedSecret *string) error
}
