package jwt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rentdesk/pkg/jwt"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	svc, err := jwt.New(signingKey)
	require.NoError(t, err)
	token, claims, err := svc.Issue("user-7", "manager@example.com", "manager")
	require.NoError(t, err)

	protected := func(opts ...jwt.MiddlewareOption) http.Handler {
		return jwt.Middleware(svc, opts...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := jwt.ClaimsFromContext(r.Context())
			require.True(t, ok)
			raw, ok := jwt.TokenFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, token, raw)
			_, _ = w.Write([]byte(c.UserID()))
		}))
	}

	do := func(h http.Handler, auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/functions/2fa-setup", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		rec := do(protected(), "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-7", rec.Body.String())

		rec = do(protected(), "bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing or malformed header", func(t *testing.T) {
		t.Parallel()
		for _, h := range []string{"", "Basic abc", "Bearer ", token} {
			rec := do(protected(), h)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, h)
			assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, rec.Body.String())
		}
	})

	t.Run("revoked token", func(t *testing.T) {
		t.Parallel()
		deny := jwt.NewMemoryDenylist()
		h := protected(jwt.WithDenylist(deny))

		require.Equal(t, http.StatusOK, do(h, "Bearer "+token).Code)
		require.NoError(t, deny.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time))
		assert.Equal(t, http.StatusUnauthorized, do(h, "Bearer "+token).Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		var got error
		h := protected(jwt.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusTeapot)
		}))
		rec := do(h, "")
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, jwt.ErrMissingToken)
	})
}

func TestMemoryDenylist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := jwt.NewMemoryDenylist()

	revoked, err := d.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "a", time.Now().Add(time.Hour)))
	require.NoError(t, d.Revoke(ctx, "b", time.Now().Add(-time.Second)))

	revoked, _ = d.IsRevoked(ctx, "a")
	assert.True(t, revoked)
	revoked, _ = d.IsRevoked(ctx, "b")
	assert.False(t, revoked, "already expired tokens need no entry")
}
