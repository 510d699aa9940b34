package statemachine

import (
	"errors"
	"fmt"
)

// ErrNoTransition is returned when nothing is registered for the state and event.
type ErrNoTransition struct {
	State string
	Event string
}

func (e *ErrNoTransition) Error() string {
	return fmt.Sprintf("statemachine: no transition from %q on %q", e.State, e.Event)
}

// ErrRejected is returned when every candidate transition was blocked by a guard.
type ErrRejected struct {
	State string
	Event string
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("statemachine: transition from %q on %q rejected by guards", e.State, e.Event)
}

func IsNoTransition(err error) bool {
	var e *ErrNoTransition
	return errors.As(err, &e)
}

func IsRejected(err error) bool {
	var e *ErrRejected
	return errors.As(err, &e)
}
