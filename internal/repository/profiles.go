package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rentdesk/pkg/pg"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

// Profiles implements twofactor.ProfileStore. Bound to the service pool it
// also serves as the pre-session twofactor.LoginProfileReader.
type Profiles struct {
	db DBTX
}

func NewProfiles(db DBTX) *Profiles {
	return &Profiles{db: db}
}

const getProfile = `
SELECT id, email, role, two_factor_enabled, two_factor_secret, created_at, updated_at
FROM profiles
WHERE id = $1`

func (r *Profiles) GetProfile(ctx context.Context, userID uuid.UUID) (*twofactor.Profile, error) {
	var p twofactor.Profile
	err := r.db.QueryRow(ctx, getProfile, userID).Scan(
		&p.UserID,
		&p.Email,
		&p.Role,
		&p.TwoFactorEnabled,
		&p.TwoFactorSecret,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, twofactor.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

const createProfile = `
INSERT INTO profiles (id, email, role, two_factor_enabled, two_factor_secret, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

func (r *Profiles) CreateProfile(ctx context.Context, p *twofactor.Profile) error {
	_, err := r.db.Exec(ctx, createProfile,
		p.UserID, p.Email, p.Role, p.TwoFactorEnabled, p.TwoFactorSecret, p.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return twofactor.ErrProfileExists
		}
		return err
	}
	return nil
}

const saveTwoFactor = `
UPDATE profiles
SET two_factor_enabled = $2, two_factor_secret = $3, updated_at = now()
WHERE id = $1`

func (r *Profiles) SaveTwoFactor(ctx context.Context, userID uuid.UUID, enabled bool, sealedSecret *string) error {
	tag, err := r.db.Exec(ctx, saveTwoFactor, userID, enabled, sealedSecret)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return twofactor.ErrProfileNotFound
	}
	return nil
}

var _ twofactor.ProfileStore = (*Profiles)(nil)
