package twofactor

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/pkg/ratelimit"
	"github.com/dmitrymomot/rentdesk/pkg/totp"
)

// Limiter throttles verification attempts per key. *ratelimit.FixedWindow implements it.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
	Reset(ctx context.Context, key string) error
}

// Observer receives one call per finished operation. *metrics.Metrics implements it.
type Observer interface {
	TwoFactor(operation, result string)
}

type LimitConfig struct {
	Attempts int           `env:"TWOFA_ATTEMPT_LIMIT" envDefault:"0"`
	Window   time.Duration `env:"TWOFA_ATTEMPT_WINDOW" envDefault:"15m"`
}

func (c LimitConfig) Enabled() bool { return c.Attempts > 0 && c.Window > 0 }

type options struct {
	issuer    string
	window    int
	now       func() time.Time
	sealer    SecretSealer
	limiter   Limiter
	observer  Observer
	log       *slog.Logger
	newSecret func() (string, error)
	qrSize    int
}

type Option func(*options)

func WithIssuer(issuer string) Option {
	return func(o *options) {
		if issuer != "" {
			o.issuer = issuer
		}
	}
}

// WithWindow sets the accepted clock skew in 30-second steps.
func WithWindow(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.window = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithSealer(s SecretSealer) Option {
	return func(o *options) {
		if s != nil {
			o.sealer = s
		}
	}
}

// WithLimiter enables attempt throttling. Without it attempts are unlimited.
func WithLimiter(l Limiter) Option {
	return func(o *options) { o.limiter = l }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSecretGenerator replaces totp.GenerateSecretKey.
func WithSecretGenerator(fn func() (string, error)) Option {
	return func(o *options) {
		if fn != nil {
			o.newSecret = fn
		}
	}
}

func WithQRSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.qrSize = px
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		issuer:    "RentDesk",
		window:    totp.DefaultWindow,
		now:       time.Now,
		sealer:    PlainSealer{},
		log:       logger.Discard(),
		newSecret: totp.GenerateSecretKey,
		qrSize:    256,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) newEngine() *totp.Engine {
	return totp.NewEngine(totp.WithWindow(o.window), totp.WithClock(o.now))
}

func (o *options) observe(operation, result string) {
	if o.observer != nil {
		o.observer.TwoFactor(operation, result)
	}
}
