package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/pg"
)

// Users implements auth.UserStore.
type Users struct {
	db DBTX
}

func NewUsers(db DBTX) *Users {
	return &Users{db: db}
}

const createUser = `INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`

func (r *Users) CreateUser(ctx context.Context, user *auth.User, passwordHash []byte) error {
	_, err := r.db.Exec(ctx, createUser, user.ID, user.Email, passwordHash, user.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

const getUserByEmail = `SELECT id, email, created_at, password_hash FROM users WHERE email = $1`

func (r *Users) GetUserByEmail(ctx context.Context, email string) (*auth.User, []byte, error) {
	var (
		u    auth.User
		hash []byte
	)
	err := r.db.QueryRow(ctx, getUserByEmail, email).Scan(&u.ID, &u.Email, &u.CreatedAt, &hash)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, nil, auth.ErrUserNotFound
		}
		return nil, nil, err
	}
	return &u, hash, nil
}

const getUserByID = `SELECT id, email, created_at FROM users WHERE id = $1`

func (r *Users) GetUserByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	var u auth.User
	err := r.db.QueryRow(ctx, getUserByID, id).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ auth.UserStore = (*Users)(nil)
