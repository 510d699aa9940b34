// Package twofactor exposes the two-factor endpoints over HTTP.
//
// Session-bound routes (2fa-setup, 2fa-verify) sit behind the session
// middleware. The pre-session routes (verify-login-otp, check-2fa-status)
// trust the user id in the body and only ever read profiles.
package twofactor

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/rentdesk/handler"
	"github.com/dmitrymomot/rentdesk/pkg/binder"
	"github.com/dmitrymomot/rentdesk/pkg/jwt"
	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

type Module struct {
	svc          *twofactor.Service
	verifier     *twofactor.LoginVerifier
	session      func(http.Handler) http.Handler
	public       []func(http.Handler) http.Handler
	errorHandler handler.ErrorHandler[handler.Context]
}

type Option func(*Module)

// WithSessionMiddleware sets the middleware authenticating session-bound routes.
func WithSessionMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(m *Module) { m.session = mw }
}

// WithPublicMiddleware adds middleware to the pre-session routes only.
func WithPublicMiddleware(mws ...func(http.Handler) http.Handler) Option {
	return func(m *Module) { m.public = append(m.public, mws...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		m.errorHandler = handler.NewErrorHandler(l, MapError)
	}
}

func New(svc *twofactor.Service, verifier *twofactor.LoginVerifier, opts ...Option) *Module {
	m := &Module{
		svc:          svc,
		verifier:     verifier,
		errorHandler: handler.NewErrorHandler(logger.Discard(), MapError),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle returns the router to mount under /functions.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if m.session != nil {
			r.Use(m.session)
		}
		r.Post("/2fa-setup", handler.Wrap(m.setup,
			handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
		))
		r.Post("/2fa-verify", handler.Wrap(m.verify,
			handler.WithBinders[handler.Context, verifyRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, verifyRequest](m.errorHandler),
		))
	})

	r.Group(func(r chi.Router) {
		r.Use(m.public...)
		r.Post("/verify-login-otp", handler.Wrap(m.verifyLogin,
			handler.WithBinders[handler.Context, verifyLoginRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, verifyLoginRequest](m.errorHandler),
		))
		r.Post("/check-2fa-status", handler.Wrap(m.status,
			handler.WithBinders[handler.Context, statusRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, statusRequest](m.errorHandler),
		))
	})

	return r
}

type setupResponse struct {
	Success    bool   `json:"success"`
	OtpauthURI string `json:"otpauthUri"`
	QRCode     string `json:"qrCode"`
}

func (m *Module) setup(ctx handler.Context, _ struct{}) handler.Response {
	id, err := identity(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	prov, err := m.svc.Provision(ctx, id)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.OK(setupResponse{Success: true, OtpauthURI: prov.URI, QRCode: prov.QRCode})
}

type verifyRequest struct {
	OTP    string `json:"otp"`
	Action string `json:"action"`
}

type verifyResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

func (m *Module) verify(ctx handler.Context, req verifyRequest) handler.Response {
	id, err := identity(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	if err := m.svc.Confirm(ctx, id, req.OTP, twofactor.Action(req.Action)); err != nil {
		return handler.Fail(err)
	}
	return handler.OK(verifyResponse{Success: true, Verified: true})
}

type verifyLoginRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

func (m *Module) verifyLogin(ctx handler.Context, req verifyLoginRequest) handler.Response {
	if req.UserID == "" || req.OTP == "" {
		return handler.Fail(ErrMissingFields)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return handler.Fail(ErrInvalidUserID)
	}

	ok, err := m.verifier.VerifyLogin(ctx, userID, req.OTP)
	if err != nil {
		return handler.Fail(err)
	}
	if !ok {
		return handler.JSON(http.StatusBadRequest, verifyResponse{
			Success:  false,
			Verified: false,
			Error:    "Invalid OTP code",
		})
	}
	return handler.OK(verifyResponse{Success: true, Verified: true})
}

type statusRequest struct {
	UserID string `json:"userId"`
}

type statusResponse struct {
	Success bool `json:"success"`
	Enabled bool `json:"enabled"`
}

func (m *Module) status(ctx handler.Context, req statusRequest) handler.Response {
	if req.UserID == "" {
		return handler.Fail(ErrMissingUserID)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return handler.Fail(ErrInvalidUserID)
	}
	enabled, err := m.verifier.Status(ctx, userID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.OK(statusResponse{Success: true, Enabled: enabled})
}

func identity(ctx handler.Context) (twofactor.Identity, error) {
	claims, ok := jwt.ClaimsFromContext(ctx)
	if !ok {
		return twofactor.Identity{}, twofactor.ErrUnauthenticated
	}
	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return twofactor.Identity{}, twofactor.ErrUnauthenticated
	}
	return twofactor.Identity{UserID: id, Email: claims.Email}, nil
}
