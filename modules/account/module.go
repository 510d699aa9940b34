// Package account serves password sign-in, sign-out and the caller's profile.
package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/rentdesk/handler"
	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/pkg/binder"
	"github.com/dmitrymomot/rentdesk/pkg/jwt"
	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

// Observer receives sign-in outcomes. *metrics.Metrics implements it.
type Observer interface {
	SignIn(result string)
}

type Module struct {
	directory    *auth.Directory
	profiles     *twofactor.Service
	session      func(http.Handler) http.Handler
	public       []func(http.Handler) http.Handler
	observer     Observer
	errorHandler handler.ErrorHandler[handler.Context]
}

type Option func(*Module)

func WithSessionMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(m *Module) { m.session = mw }
}

// WithPublicMiddleware adds middleware to the sign-in route only.
func WithPublicMiddleware(mws ...func(http.Handler) http.Handler) Option {
	return func(m *Module) { m.public = append(m.public, mws...) }
}

func WithObserver(o Observer) Option {
	return func(m *Module) { m.observer = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		m.errorHandler = handler.NewErrorHandler(l, MapError)
	}
}

func New(directory *auth.Directory, profiles *twofactor.Service, opts ...Option) *Module {
	m := &Module{
		directory:    directory,
		profiles:     profiles,
		errorHandler: handler.NewErrorHandler(logger.Discard(), MapError),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle returns the router to mount under /auth.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.With(m.public...).Post("/sign-in", handler.Wrap(m.signIn,
		handler.WithBinders[handler.Context, signInRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, signInRequest](m.errorHandler),
	))

	r.Group(func(r chi.Router) {
		if m.session != nil {
			r.Use(m.session)
		}
		r.Post("/sign-out", handler.Wrap(m.signOut,
			handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
		))
		r.Get("/profile", handler.Wrap(m.profile,
			handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
		))
	})

	return r
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Success bool `json:"success"`
	*auth.Session
}

func (m *Module) signIn(ctx handler.Context, req signInRequest) handler.Response {
	if req.Email == "" || req.Password == "" {
		return handler.Fail(ErrMissingCredentials)
	}

	sess, err := m.directory.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		m.observe("failure")
		return handler.Fail(err)
	}
	m.observe("success")
	return handler.OK(signInResponse{Success: true, Session: sess})
}

type okResponse struct {
	Success bool `json:"success"`
}

func (m *Module) signOut(ctx handler.Context, _ struct{}) handler.Response {
	claims, ok := jwt.ClaimsFromContext(ctx)
	if !ok {
		return handler.Fail(auth.ErrNoSession)
	}
	if err := m.directory.SignOut(ctx, claims); err != nil {
		return handler.Fail(err)
	}
	return handler.OK(okResponse{Success: true})
}

type profileResponse struct {
	Success          bool   `json:"success"`
	UserID           string `json:"userId"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

func (m *Module) profile(ctx handler.Context, _ struct{}) handler.Response {
	claims, ok := jwt.ClaimsFromContext(ctx)
	if !ok {
		return handler.Fail(auth.ErrNoSession)
	}
	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return handler.Fail(auth.ErrNoSession)
	}

	p, err := m.profiles.Profile(ctx, userID)
	if err != nil {
		return handler.Fail(err)
	}
	email := p.Email
	if email == "" {
		email = claims.Email
	}
	return handler.OK(profileResponse{
		Success:          true,
		UserID:           p.UserID.String(),
		Email:            email,
		Role:             p.Role,
		TwoFactorEnabled: p.TwoFactorEnabled,
	})
}

func (m *Module) observe(result string) {
	if m.observer != nil {
		m.observer.SignIn(result)
	}
}
