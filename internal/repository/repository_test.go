package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rentdesk/internal/repository"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

type row struct {
	values []any
	err    error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case **string:
			*p = r.values[i].(*string)
		case *bool:
			*p = r.values[i].(bool)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *[]byte:
			*p = r.values[i].([]byte)
		default:
			return errors.New("unexpected scan target")
		}
	}
	return nil
}

type fakeDB struct {
	row      row
	tag      pgconn.CommandTag
	execErr  error
	lastSQL  string
	lastArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return f.tag, f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.lastArgs = sql, args
	return f.row
}

func TestProfiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		secret := "sealed"
		db := &fakeDB{row: row{values: []any{id, "a@b.co", twofactor.RoleOwner, true, &secret, now, now}}}

		p, err := repository.NewProfiles(db).GetProfile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, p.UserID)
		assert.True(t, p.TwoFactorEnabled)
		require.NotNil(t, p.TwoFactorSecret)
		assert.Equal(t, "sealed", *p.TwoFactorSecret)
		assert.Equal(t, []any{id}, db.lastArgs)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: row{err: pgx.ErrNoRows}}
		_, err := repository.NewProfiles(db).GetProfile(ctx, id)
		assert.ErrorIs(t, err, twofactor.ErrProfileNotFound)
	})

	t.Run("create duplicate", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{execErr: &pgconn.PgError{Code: "23505"}}
		err := repository.NewProfiles(db).CreateProfile(ctx, &twofactor.Profile{UserID: id, CreatedAt: now})
		assert.ErrorIs(t, err, twofactor.ErrProfileExists)
	})

	t.Run("save", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 1")}
		require.NoError(t, repository.NewProfiles(db).SaveTwoFactor(ctx, id, false, nil))
		assert.Equal(t, []any{id, false, (*string)(nil)}, db.lastArgs)
	})

	t.Run("save unknown profile", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{tag: pgconn.NewCommandTag("UPDATE 0")}
		err := repository.NewProfiles(db).SaveTwoFactor(ctx, id, true, nil)
		assert.ErrorIs(t, err, twofactor.ErrProfileNotFound)
	})
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("by email", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: row{values: []any{id, "a@b.co", now, []byte("hash")}}}
		u, hash, err := repository.NewUsers(db).GetUserByEmail(ctx, "a@b.co")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, []byte("hash"), hash)
	})

	t.Run("by id missing", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{row: row{err: pgx.ErrNoRows}}
		_, err := repository.NewUsers(db).GetUserByID(ctx, id)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{execErr: &pgconn.PgError{Code: "23505"}}
		err := repository.NewUsers(db).CreateUser(ctx, &auth.User{ID: id, Email: "a@b.co"}, []byte("x"))
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})
}
