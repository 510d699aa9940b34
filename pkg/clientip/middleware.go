package clientip

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/rentdesk/pkg/logger"
)

var ErrUnknownClient = errors.New("client ip could not be resolved")

// Middleware stores the resolved client IP in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), FromRequest(r))))
	})
}

// KeyFunc keys rate limiters by client IP. It prefers the value stored by
// Middleware.
func KeyFunc(r *http.Request) (string, error) {
	ip := FromContext(r.Context())
	if ip == "" {
		ip = FromRequest(r)
	}
	if ip == "" {
		return "", ErrUnknownClient
	}
	return ip, nil
}

// LoggerExtractor adds client_ip to records logged with a request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		ip := FromContext(ctx)
		if ip == "" {
			return slog.Attr{}, false
		}
		return slog.String("client_ip", ip), true
	}
}
