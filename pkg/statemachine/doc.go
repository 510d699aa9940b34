// Package statemachine is a small generic finite state machine with guards,
// pre-commit actions and post-commit listeners.
//
//	type state string
//	type event string
//
//	m := statemachine.New[state, event]("awaiting_credentials",
//		statemachine.WithTransition[state, event]("awaiting_credentials", "credentials_verified", "signed_in"),
//	)
//	err := m.Fire(ctx, "signed_in", nil)
//
// Fire returns *ErrNoTransition or *ErrRejected when the event cannot be applied;
// use IsNoTransition and IsRejected to tell them apart.
package statemachine
