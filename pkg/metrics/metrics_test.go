package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rentdesk/pkg/metrics"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()
	m := metrics.New("rentdesk")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Post("/functions/2fa-verify", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/metrics", m.Handler().ServeHTTP)

	for range 2 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/functions/2fa-verify", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	expected := `
# HELP http_requests_total Total number of HTTP requests.
# TYPE http_requests_total counter
http_requests_total{method="POST",route="/functions/2fa-verify",service="rentdesk",status="400"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "http_requests_total"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func TestCounters(t *testing.T) {
	t.Parallel()
	m := metrics.New("rentdesk")

	m.TwoFactor("enable", "success")
	m.TwoFactor("enable", "invalid_code")
	m.TwoFactor("enable", "success")
	m.SignIn("success")

	expected := `
# HELP twofactor_operations_total Two-factor operations by outcome.
# TYPE twofactor_operations_total counter
twofactor_operations_total{operation="enable",result="invalid_code",service="rentdesk"} 1
twofactor_operations_total{operation="enable",result="success",service="rentdesk"} 2
# HELP auth_sign_ins_total Primary credential sign-in attempts.
# TYPE auth_sign_ins_total counter
auth_sign_ins_total{result="success",service="rentdesk"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"twofactor_operations_total", "auth_sign_ins_total"))
}
