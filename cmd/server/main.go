// Command server runs the rentdesk authentication API: password sessions
// and TOTP two-factor enrollment and login step-up.
package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/rentdesk/internal/seed"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/clientip"
	"github.com/dmitrymomot/rentdesk/pkg/config"
	"github.com/dmitrymomot/rentdesk/pkg/httpserver"
	"github.com/dmitrymomot/rentdesk/pkg/jwt"
	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/pkg/metrics"
	"github.com/dmitrymomot/rentdesk/pkg/ratelimit"
	"github.com/dmitrymomot/rentdesk/pkg/redis"
	"github.com/dmitrymomot/rentdesk/pkg/requestid"
	"github.com/dmitrymomot/rentdesk/pkg/totp"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app      appConfig
		httpCfg  httpserver.Config
		sessCfg  auth.SessionConfig
		redisCfg redis.Config
		limitCfg twofactor.LimitConfig
	)
	for _, cfg := range []func() error{
		func() error { return config.Load(&app) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&sessCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&limitCfg) },
	} {
		if err := cfg(); err != nil {
			return err
		}
	}
	totpCfg, err := totp.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	slog.SetDefault(log)

	st, err := openStorage(ctx, app.Storage, log)
	if err != nil {
		return err
	}
	checks := st.checks
	closers := []func(){st.close}
	var closeOnce sync.Once
	closeAll := func() {
		closeOnce.Do(func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		})
	}
	defer closeAll()

	var rdb *goredis.Client
	if redisCfg.Enabled() {
		rdb, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	}

	sessions, err := jwt.New([]byte(sessCfg.SigningKey),
		jwt.WithIssuer(sessCfg.Issuer),
		jwt.WithTTL(sessCfg.TTL),
	)
	if err != nil {
		return err
	}

	dirOpts := []auth.Option{auth.WithBcryptCost(sessCfg.BcryptCost), auth.WithLogger(log)}
	if rdb != nil {
		dirOpts = append(dirOpts, auth.WithDenylist(redis.NewDenylist(rdb, redisCfg.KeyPrefix+"jwt:")))
	}
	directory := auth.NewDirectory(st.users, sessions, dirOpts...)

	var m *metrics.Metrics
	if app.MetricsEnabled {
		m = metrics.New(app.Name)
	}

	tfOpts := []twofactor.Option{
		twofactor.WithIssuer(totpCfg.Issuer),
		twofactor.WithWindow(totpCfg.Window),
		twofactor.WithLogger(log),
	}
	if totpCfg.EncryptionKey != "" {
		sealer, err := totp.NewSealerFromConfig(totpCfg)
		if err != nil {
			return err
		}
		tfOpts = append(tfOpts, twofactor.WithSealer(sealer))
	} else {
		log.WarnContext(ctx, "TOTP_ENCRYPTION_KEY not set, two-factor secrets are stored unsealed")
	}
	if m != nil {
		tfOpts = append(tfOpts, twofactor.WithObserver(m))
	}
	if limitCfg.Enabled() {
		var store ratelimit.Store
		if rdb != nil {
			store = redis.NewRateLimitStore(rdb, redisCfg.KeyPrefix)
		} else {
			mem := ratelimit.NewMemoryStore()
			closers = append(closers, func() { _ = mem.Close() })
			store = mem
		}
		limiter, err := ratelimit.NewFixedWindow(store, limitCfg.Attempts, limitCfg.Window)
		if err != nil {
			return err
		}
		tfOpts = append(tfOpts, twofactor.WithLimiter(limiter))
		log.InfoContext(ctx, "two-factor attempt throttling enabled",
			slog.Int("attempts", limitCfg.Attempts),
			logger.Duration(limitCfg.Window),
		)
	}

	twoFactor := twofactor.NewService(st.profiles, tfOpts...)
	verifier := twofactor.NewLoginVerifier(st.reader, tfOpts...)

	if app.SeedEmail != "" {
		user, err := seed.User(ctx, directory, st.users, twoFactor, app.SeedEmail, app.SeedPassword, app.SeedRole)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "seed user ready", logger.UserID(user.ID))
	}

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(context.Context) { closeAll() }),
	)

	return srv.Run(ctx, newRouter(routerDeps{
		log:         log,
		metrics:     m,
		sessions:    sessions,
		directory:   directory,
		twoFactor:   twoFactor,
		verifier:    verifier,
		checks:      checks,
		corsOrigins: app.CORSOrigins,
		ipLimit:     app.IPRateLimit,
		ipWindow:    app.IPRateWindow,
		healthWait:  app.HealthTimeout,
	}))
}
