package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/rentdesk/internal/seed"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/jwt"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

func TestUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sessions, err := jwt.New([]byte("seed-test-key"))
	require.NoError(t, err)
	users := auth.NewMemoryUserStore()
	dir := auth.NewDirectory(users, sessions, auth.WithBcryptCost(bcrypt.MinCost))
	profiles := twofactor.NewService(twofactor.NewMemoryStore())

	first, err := seed.User(ctx, dir, users, profiles, "Manager@Example.com", "long-enough", twofactor.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", first.Email)

	again, err := seed.User(ctx, dir, users, profiles, "manager@example.com", "long-enough", twofactor.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	p, err := profiles.Profile(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, twofactor.RoleManager, p.Role)
	assert.False(t, p.TwoFactorEnabled)

	_, err = seed.User(ctx, dir, users, profiles, "not-an-email", "long-enough", "")
	assert.ErrorIs(t, err, auth.ErrInvalidEmail)
}
