package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionRole is the role claim carried by every user session.
const SessionRole = "authenticated"

type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// UserStore persists directory users and their bcrypt password hashes.
type UserStore interface {
	CreateUser(ctx context.Context, user *User, passwordHash []byte) error
	GetUserByEmail(ctx context.Context, email string) (*User, []byte, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
