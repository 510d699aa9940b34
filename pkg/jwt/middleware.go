package jwt

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorHandler writes the response for a request that failed authentication.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	denylist Denylist
	onError  ErrorHandler
}

type MiddlewareOption func(*middlewareConfig)

// WithDenylist rejects tokens whose jti has been revoked.
func WithDenylist(d Denylist) MiddlewareOption {
	return func(c *middlewareConfig) { c.denylist = d }
}

func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.onError = h
		}
	}
}

// Middleware requires "Authorization: Bearer <token>" and stores the token
// and its claims in the request context.
func Middleware(svc *Service, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{onError: writeUnauthorized}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			claims, err := svc.Parse(token)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			if cfg.denylist != nil {
				revoked, err := cfg.denylist.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					cfg.onError(w, r, err)
					return
				}
				if revoked {
					cfg.onError(w, r, ErrRevokedToken)
					return
				}
			}

			ctx := WithClaims(WithToken(r.Context(), token), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header. The scheme is case-insensitive.
func BearerToken(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Unauthorized"})
}
