package clientip_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rentdesk/pkg/clientip"
	"github.com/dmitrymomot/rentdesk/pkg/logger"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"remote addr", nil, "192.0.2.10:5123", "192.0.2.10"},
		{"remote addr without port", nil, "192.0.2.10", "192.0.2.10"},
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "203.0.113.5", "X-Forwarded-For": "198.51.100.1"}, "10.0.0.1:80", "203.0.113.5"},
		{"first valid forwarded entry", map[string]string{"X-Forwarded-For": "garbage, 198.51.100.7, 10.0.0.2"}, "10.0.0.1:80", "198.51.100.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.1:80", "198.51.100.9"},
		{"invalid headers fall back", map[string]string{"CF-Connecting-IP": "nope", "X-Real-IP": "1.2.3"}, "10.0.0.1:80", "10.0.0.1"},
		{"ipv6 normalized", map[string]string{"X-Forwarded-For": "2001:DB8::0001"}, "", "2001:db8::1"},
		{"nothing valid", nil, "pipe", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.FromRequest(r))
		})
	}
}

func TestMiddlewareAndKeyFunc(t *testing.T) {
	t.Parallel()

	var key string
	h := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		key, err = clientip.KeyFunc(r)
		require.NoError(t, err)
	}))

	r := httptest.NewRequest(http.MethodPost, "/functions/verify-login-otp", nil)
	r.Header.Set("X-Forwarded-For", "198.51.100.7")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "198.51.100.7", key)

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.RemoteAddr = "pipe"
	_, err := clientip.KeyFunc(bad)
	assert.ErrorIs(t, err, clientip.ErrUnknownClient)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(clientip.LoggerExtractor()))

	log.InfoContext(clientip.WithContext(context.Background(), "203.0.113.5"), "2fa attempt")
	assert.Contains(t, buf.String(), `"client_ip":"203.0.113.5"`)

	buf.Reset()
	log.InfoContext(context.Background(), "no ip")
	assert.NotContains(t, buf.String(), "client_ip")
}
