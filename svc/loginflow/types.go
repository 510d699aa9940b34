package loginflow

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateAwaitingCredentials State = "awaiting_credentials"
	StateCredentialsVerified State = "credentials_verified"
	StateStepUpPending       State = "step_up_pending"
	StateAuthenticated       State = "authenticated"
)

type Event string

const (
	EventSignedIn       Event = "signed_in"
	EventStepUpRequired Event = "step_up_required"
	EventProfileLoaded  Event = "profile_loaded"
	EventCodeAccepted   Event = "code_accepted"
	EventFailed         Event = "failed"
	EventCancel         Event = "cancel"
	EventSignedOut      Event = "signed_out"
)

// Notice is the user-facing message the flow surfaces after a step.
type Notice string

const (
	NoticeNone               Notice = ""
	NoticeInvalidCredentials Notice = "Invalid login credentials"
	NoticeEnterCode          Notice = "Enter the 6-digit code from your authenticator app"
	NoticeInvalidCode        Notice = "Invalid verification code. Please try again."
	NoticeTryAgain           Notice = "Something went wrong. Please try again."
)

type Session struct {
	AccessToken string    `json:"accessToken"`
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Profile struct {
	UserID           uuid.UUID `json:"userId"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
}

// Directory signs users in and out of the primary credential system.
type Directory interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// TwoFactorChecker is the pre-session second-factor capability.
type TwoFactorChecker interface {
	Status(ctx context.Context, userID uuid.UUID) (bool, error)
	VerifyLogin(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

type ProfileFetcher interface {
	Profile(ctx context.Context, accessToken string) (*Profile, error)
}
