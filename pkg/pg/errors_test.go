package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/rentdesk/pkg/pg"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	wrapped := func(code string) error {
		return fmt.Errorf("query: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, pg.IsNotFoundError(fmt.Errorf("get profile: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(nil))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))

	assert.True(t, pg.IsDuplicateKeyError(wrapped("23505")))
	assert.False(t, pg.IsDuplicateKeyError(wrapped("23514")))
	assert.False(t, pg.IsDuplicateKeyError(nil))

	assert.True(t, pg.IsCheckViolationError(wrapped("23514")))
	assert.False(t, pg.IsCheckViolationError(wrapped("23505")))
}
