package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/dmitrymomot/rentdesk/modules/account"
	twofactormod "github.com/dmitrymomot/rentdesk/modules/twofactor"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/clientip"
	"github.com/dmitrymomot/rentdesk/pkg/httpserver"
	"github.com/dmitrymomot/rentdesk/pkg/jwt"
	"github.com/dmitrymomot/rentdesk/pkg/metrics"
	"github.com/dmitrymomot/rentdesk/pkg/requestid"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

type routerDeps struct {
	log         *slog.Logger
	metrics     *metrics.Metrics
	sessions    *jwt.Service
	directory   *auth.Directory
	twoFactor   *twofactor.Service
	verifier    *twofactor.LoginVerifier
	checks      []httpserver.Check
	corsOrigins []string
	ipLimit     int
	ipWindow    time.Duration
	healthWait  time.Duration
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(clientip.Middleware)
	r.Use(requestid.Middleware)
	r.Use(chimw.Recoverer)
	if d.metrics != nil {
		r.Use(d.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins(d.corsOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey", requestid.Header},
		ExposedHeaders: []string{requestid.Header},
		MaxAge:         300,
	}))

	session := jwt.Middleware(d.sessions, jwt.WithDenylist(d.directory.Denylist()))
	var public []func(http.Handler) http.Handler
	if d.ipLimit > 0 {
		public = append(public, httprate.Limit(d.ipLimit, d.ipWindow, httprate.WithKeyFuncs(clientip.KeyFunc)))
	}

	r.Get("/healthz", httpserver.HealthHandler(d.log, d.healthWait, d.checks...))
	if d.metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.metrics.Handler())
	}

	accountOpts := []account.Option{
		account.WithSessionMiddleware(session),
		account.WithPublicMiddleware(public...),
		account.WithLogger(d.log),
	}
	twoFactorOpts := []twofactormod.Option{
		twofactormod.WithSessionMiddleware(session),
		twofactormod.WithPublicMiddleware(public...),
		twofactormod.WithLogger(d.log),
	}
	if d.metrics != nil {
		accountOpts = append(accountOpts, account.WithObserver(d.metrics))
	}

	r.Mount("/auth", account.New(d.directory, d.twoFactor, accountOpts...).Handle())
	r.Mount("/functions", twofactormod.New(d.twoFactor, d.verifier, twoFactorOpts...).Handle())

	return r
}

// origins defaults to any origin.
func origins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
