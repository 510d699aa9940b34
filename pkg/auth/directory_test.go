package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/jwt"
)

func newDirectory(t *testing.T, store auth.UserStore) (*auth.Directory, *jwt.Service) {
	t.Helper()
	sessions, err := jwt.New([]byte("directory-test-signing-key-32by"))
	require.NoError(t, err)
	return auth.NewDirectory(store, sessions, auth.WithBcryptCost(bcrypt.MinCost)), sessions
}

func TestDirectory_RegisterAndSignIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, sessions := newDirectory(t, auth.NewMemoryUserStore())

	user, err := dir.Register(ctx, "  Owner@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", user.Email)

	_, err = dir.Register(ctx, "owner@example.com", "another password")
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)

	session, err := dir.SignIn(ctx, "OWNER@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), session.UserID)
	assert.Equal(t, "owner@example.com", session.Email)

	claims, err := sessions.Parse(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, auth.SessionRole, claims.Role)
	assert.Equal(t, claims.ExpiresAt.Time, session.ExpiresAt)

	got, err := dir.User(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = dir.User(ctx, uuid.New())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestDirectory_RegisterValidation(t *testing.T) {
	t.Parallel()
	dir, _ := newDirectory(t, auth.NewMemoryUserStore())

	_, err := dir.Register(context.Background(), "not-an-email", "long enough")
	assert.ErrorIs(t, err, auth.ErrInvalidEmail)

	_, err = dir.Register(context.Background(), "a@b.co", "short")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestDirectory_SignInFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("right password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &auth.User{ID: uuid.New(), Email: "tenant@example.com"}

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		store := &MockUserStore{}
		store.On("GetUserByEmail", mock.Anything, "tenant@example.com").Return(user, hash, nil)
		dir, _ := newDirectory(t, store)

		_, err := dir.SignIn(ctx, "tenant@example.com", "wrong password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		store.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		store := &MockUserStore{}
		store.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, nil, auth.ErrUserNotFound)
		dir, _ := newDirectory(t, store)

		_, err := dir.SignIn(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()
		store := &MockUserStore{}
		store.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, nil, errors.New("connection refused"))
		dir, _ := newDirectory(t, store)

		_, err := dir.SignIn(ctx, "tenant@example.com", "right password")
		assert.ErrorIs(t, err, auth.ErrStorage)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestDirectory_SignOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, sessions := newDirectory(t, auth.NewMemoryUserStore())

	_, err := dir.Register(ctx, "manager@example.com", "password123")
	require.NoError(t, err)
	session, err := dir.SignIn(ctx, "manager@example.com", "password123")
	require.NoError(t, err)
	claims, err := sessions.Parse(session.AccessToken)
	require.NoError(t, err)

	require.NoError(t, dir.SignOut(ctx, claims))
	revoked, err := dir.Denylist().IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, dir.SignOut(ctx, nil), auth.ErrNoSession)
}
