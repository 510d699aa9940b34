// Package seed creates directory users together with their profiles.
package seed

import (
	"context"
	"errors"

	"github.com/dmitrymomot/rentdesk/pkg/auth"
	"github.com/dmitrymomot/rentdesk/svc/twofactor"
)

// User registers email in the directory and makes sure a profile with role
// exists. An already registered email is not an error.
func User(ctx context.Context, dir *auth.Directory, users auth.UserStore, profiles *twofactor.Service, email, password, role string) (*auth.User, error) {
	user, err := dir.Register(ctx, email, password)
	if errors.Is(err, auth.ErrEmailAlreadyExists) {
		var lookupErr error
		user, _, lookupErr = users.GetUserByEmail(ctx, auth.NormalizeEmail(email))
		if lookupErr != nil {
			return nil, errors.Join(err, lookupErr)
		}
	} else if err != nil {
		return nil, err
	}

	if _, err := profiles.EnsureProfile(ctx, user.ID, user.Email, role); err != nil {
		return nil, err
	}
	return user, nil
}
