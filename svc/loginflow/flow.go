// Package loginflow drives the client side of a password login that may
// require a second factor.
//
// The flow signs in with the primary credentials, asks whether the user has
// two-factor authentication enabled and, if so, discards the fresh session
// until a valid code is supplied. Credentials needed to replay the sign-in
// live only inside the flow and are dropped once it leaves the step-up state.
package loginflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rentdesk/pkg/logger"
	"github.com/dmitrymomot/rentdesk/pkg/statemachine"
	"github.com/dmitrymomot/rentdesk/pkg/totp"
)

// pendingLogin is the in-memory replay material held during step-up.
type pendingLogin struct {
	userID   uuid.UUID
	email    string
	password string
}

type Flow struct {
	mu       sync.Mutex
	machine  *statemachine.Machine[State, Event]
	dir      Directory
	checker  TwoFactorChecker
	profiles ProfileFetcher
	log      *slog.Logger

	pending *pendingLogin
	session *Session
	profile *Profile
	code    string
	notice  Notice
}

type Option func(*Flow)

func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

func New(dir Directory, checker TwoFactorChecker, profiles ProfileFetcher, opts ...Option) *Flow {
	f := &Flow{
		dir:      dir,
		checker:  checker,
		profiles: profiles,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}

	wipe := statemachine.WithAction[State, Event](func(context.Context, State, State, Event, any) error {
		f.pending = nil
		f.code = ""
		return nil
	})
	validSession := statemachine.WithGuard[State, Event](func(_ context.Context, _ State, _ Event, data any) bool {
		sess, ok := data.(*Session)
		return ok && sess != nil && sess.AccessToken != "" && sess.UserID != uuid.Nil
	})
	hasPending := statemachine.WithGuard[State, Event](func(context.Context, State, Event, any) bool {
		return f.pending != nil
	})

	f.machine = statemachine.New(StateAwaitingCredentials,
		statemachine.WithTransition(StateAwaitingCredentials, StateCredentialsVerified, EventSignedIn, validSession),
		statemachine.WithTransition(StateCredentialsVerified, StateStepUpPending, EventStepUpRequired, hasPending),
		statemachine.WithTransition(StateCredentialsVerified, StateAuthenticated, EventProfileLoaded),
		statemachine.WithTransition(StateCredentialsVerified, StateAwaitingCredentials, EventFailed, wipe),
		statemachine.WithTransition(StateStepUpPending, StateAuthenticated, EventCodeAccepted, hasPending, wipe),
		statemachine.WithTransition(StateStepUpPending, StateAwaitingCredentials, EventFailed, wipe),
		statemachine.WithTransition(StateStepUpPending, StateAwaitingCredentials, EventCancel, wipe),
		statemachine.WithTransition(StateAuthenticated, StateAwaitingCredentials, EventSignedOut),
		statemachine.WithListener[State, Event](func(from, to State, event Event) {
			f.log.Debug("login flow transition",
				logger.Component("loginflow"),
				slog.String("from", string(from)),
				slog.String("to", string(to)),
				slog.String("event", string(event)),
			)
		}),
	)
	return f
}

func (f *Flow) State() State { return f.machine.Current() }

func (f *Flow) Notice() Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// Code returns the digits typed so far in the step-up field.
func (f *Flow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

// Session returns the established session, or nil before authentication.
func (f *Flow) Session() *Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil
	}
	s := *f.session
	return &s
}

func (f *Flow) Profile() *Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil
	}
	p := *f.profile
	return &p
}

// SubmitCredentials runs the primary sign-in and decides whether a second
// factor is needed. It returns the state the flow settled in.
func (f *Flow) SubmitCredentials(ctx context.Context, email, password string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.machine.Is(StateAwaitingCredentials) {
		return f.machine.Current(), ErrWrongState
	}
	f.notice = NoticeNone

	sess, err := f.dir.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			f.notice = NoticeInvalidCredentials
		} else {
			f.notice = NoticeTryAgain
		}
		return f.machine.Current(), err
	}
	if err := f.machine.Fire(ctx, EventSignedIn, sess); err != nil {
		return f.fail(ctx, sess, errors.Join(ErrIncompleteSession, err))
	}

	enabled, err := f.checker.Status(ctx, sess.UserID)
	if err != nil {
		return f.fail(ctx, sess, err)
	}

	if enabled {
		f.discard(ctx, sess)
		f.pending = &pendingLogin{userID: sess.UserID, email: email, password: password}
		if err := f.machine.Fire(ctx, EventStepUpRequired, nil); err != nil {
			f.pending = nil
			return f.machine.Current(), err
		}
		f.notice = NoticeEnterCode
		return f.machine.Current(), nil
	}

	profile, err := f.profiles.Profile(ctx, sess.AccessToken)
	if err != nil {
		return f.fail(ctx, sess, err)
	}
	f.session, f.profile = sess, profile
	if err := f.machine.Fire(ctx, EventProfileLoaded, nil); err != nil {
		return f.fail(ctx, sess, err)
	}
	return f.machine.Current(), nil
}

// TypeCode updates the step-up field with the digits of input and submits
// automatically once six digits are present.
func (f *Flow) TypeCode(ctx context.Context, input string) (submitted bool, err error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
	if len(digits) > 6 {
		digits = digits[:6]
	}

	f.mu.Lock()
	if !f.machine.Is(StateStepUpPending) {
		f.mu.Unlock()
		return false, ErrWrongState
	}
	f.code = digits
	f.mu.Unlock()

	if len(digits) < 6 {
		return false, nil
	}
	_, err = f.SubmitCode(ctx, digits)
	return true, err
}

// SubmitCode verifies code and, on success, replays the sign-in.
// A wrong code keeps the flow in step-up with the field cleared; attempts
// are not limited here.
func (f *Flow) SubmitCode(ctx context.Context, code string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.machine.Is(StateStepUpPending) || f.pending == nil {
		return f.machine.Current(), ErrWrongState
	}
	f.notice = NoticeNone

	code = strings.TrimSpace(code)
	if !totp.ValidCode(code) {
		f.code = ""
		f.notice = NoticeInvalidCode
		return f.machine.Current(), ErrInvalidCode
	}

	ok, err := f.checker.VerifyLogin(ctx, f.pending.userID, code)
	if err != nil {
		f.notice = NoticeTryAgain
		f.log.WarnContext(ctx, "second factor check failed",
			logger.Component("loginflow"),
			logger.UserID(f.pending.userID),
			logger.Error(err),
		)
		return f.machine.Current(), err
	}
	if !ok {
		f.code = ""
		f.notice = NoticeInvalidCode
		return f.machine.Current(), ErrInvalidCode
	}

	sess, err := f.dir.SignIn(ctx, f.pending.email, f.pending.password)
	if err != nil {
		return f.fail(ctx, nil, err)
	}
	profile, err := f.profiles.Profile(ctx, sess.AccessToken)
	if err != nil {
		return f.fail(ctx, sess, err)
	}

	f.session, f.profile = sess, profile
	if err := f.machine.Fire(ctx, EventCodeAccepted, nil); err != nil {
		return f.machine.Current(), err
	}
	return f.machine.Current(), nil
}

// Cancel abandons a pending step-up.
func (f *Flow) Cancel(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.machine.Fire(ctx, EventCancel, nil); err != nil {
		if statemachine.IsNoTransition(err) {
			return ErrWrongState
		}
		return err
	}
	f.notice = NoticeNone
	return nil
}

// SignOut ends an authenticated session and returns to the credential step.
func (f *Flow) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.machine.Is(StateAuthenticated) {
		return ErrWrongState
	}
	f.discard(ctx, f.session)
	f.session, f.profile = nil, nil
	f.notice = NoticeNone
	return f.machine.Fire(ctx, EventSignedOut, nil)
}

// fail drops sess and any replay material and returns to the credential step.
func (f *Flow) fail(ctx context.Context, sess *Session, cause error) (State, error) {
	f.discard(ctx, sess)
	f.session, f.profile = nil, nil
	f.notice = NoticeTryAgain
	if f.machine.Is(StateAwaitingCredentials) {
		return f.machine.Current(), cause
	}
	if err := f.machine.Fire(ctx, EventFailed, nil); err != nil {
		return f.machine.Current(), errors.Join(cause, err)
	}
	return f.machine.Current(), cause
}

func (f *Flow) discard(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	if err := f.dir.SignOut(ctx, sess.AccessToken); err != nil {
		f.log.WarnContext(ctx, "failed to discard session",
			logger.Component("loginflow"),
			logger.UserID(sess.UserID),
			logger.Error(err),
		)
	}
}
