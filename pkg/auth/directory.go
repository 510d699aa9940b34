// Package auth is the user directory: it registers users with bcrypt-hashed
// passwords, checks primary credentials and issues or revokes sessions.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/rentdesk/pkg/jwt"
	"github.com/dmitrymomot/rentdesk/pkg/logger"
)

const minPasswordLength = 8

// Session is what a successful sign-in hands back to the client.
type Session struct {
	AccessToken string    `json:"accessToken"`
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Directory struct {
	store    UserStore
	sessions *jwt.Service
	denylist jwt.Denylist
	cost     int
	log      *slog.Logger
	now      func() time.Time
}

type Option func(*Directory)

func WithBcryptCost(cost int) Option {
	return func(d *Directory) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			d.cost = cost
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

func WithDenylist(dl jwt.Denylist) Option {
	return func(d *Directory) { d.denylist = dl }
}

func NewDirectory(store UserStore, sessions *jwt.Service, opts ...Option) *Directory {
	d := &Directory{
		store:    store,
		sessions: sessions,
		denylist: jwt.NewMemoryDenylist(),
		cost:     bcrypt.DefaultCost,
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Denylist returns the revocation list the Bearer middleware must consult.
func (d *Directory) Denylist() jwt.Denylist { return d.denylist }

func (d *Directory) Register(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	user := &User{ID: uuid.New(), Email: email, CreatedAt: d.now().UTC()}
	if err := d.store.CreateUser(ctx, user, hash); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, errors.Join(ErrStorage, err)
	}

	d.log.InfoContext(ctx, "user registered", logger.UserID(user.ID), logger.Component("auth"))
	return user, nil
}

// SignIn checks the password and issues a session. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (d *Directory) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, hash, err := d.store.GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, errors.Join(ErrStorage, err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		d.log.InfoContext(ctx, "sign-in rejected", logger.UserID(user.ID), logger.Component("auth"))
		return nil, ErrInvalidCredentials
	}

	token, claims, err := d.sessions.Issue(user.ID.String(), user.Email, SessionRole)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: token,
		UserID:      user.ID.String(),
		Email:       user.Email,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session described by claims.
func (d *Directory) SignOut(ctx context.Context, claims *jwt.SessionClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrNoSession
	}
	var until time.Time
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := d.denylist.Revoke(ctx, claims.ID, until); err != nil {
		return errors.Join(ErrStorage, err)
	}
	d.log.InfoContext(ctx, "session revoked", logger.UserID(claims.Subject), logger.Component("auth"))
	return nil
}

func (d *Directory) User(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := d.store.GetUserByID(ctx, id)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, errors.Join(ErrStorage, err)
	}
	return user, err
}
