package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard decides at fire time whether a transition may be taken.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action runs before the state changes. A non-nil error aborts the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Listener is notified after a transition has been committed.
type Listener[S, E comparable] func(from, to S, event E)

type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]
	Actions []Action[S, E]
}

// Machine is a thread-safe finite state machine keyed by comparable state and
// event types. Transitions for the same (state, event) pair are tried in the
// order they were added; the first whose guards all pass wins.
//
// Guards, actions and listeners run with the machine locked and must not call
// back into it.
type Machine[S, E comparable] struct {
	mu          sync.RWMutex
	initial     S
	current     S
	transitions map[S]map[E][]Transition[S, E]
	listeners   []Listener[S, E]
}

func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Machine[S, E]) Is(state S) bool {
	return m.Current() == state
}

func (m *Machine[S, E]) AddTransition(t Transition[S, E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addTransition(t)
}

func (m *Machine[S, E]) addTransition(t Transition[S, E]) {
	byEvent, ok := m.transitions[t.From]
	if !ok {
		byEvent = make(map[E][]Transition[S, E])
		m.transitions[t.From] = byEvent
	}
	byEvent[t.Event] = append(byEvent[t.Event], t)
}

// Fire applies event to the current state.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.current
	candidates := m.transitions[from][event]
	if len(candidates) == 0 {
		return &ErrNoTransition{State: fmt.Sprint(from), Event: fmt.Sprint(event)}
	}

	t, ok := m.pick(ctx, candidates, event, data)
	if !ok {
		return &ErrRejected{State: fmt.Sprint(from), Event: fmt.Sprint(event)}
	}

	for _, action := range t.Actions {
		if err := action(ctx, from, t.To, event, data); err != nil {
			return fmt.Errorf("statemachine: action on %v -> %v failed: %w", from, t.To, err)
		}
	}

	m.current = t.To
	for _, l := range m.listeners {
		l(from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire would find a transition whose guards pass.
// Actions are not run.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.pick(ctx, m.transitions[m.current][event], event, data)
	return ok
}

// Reset returns the machine to its initial state without running actions.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine[S, E]) pick(ctx context.Context, candidates []Transition[S, E], event E, data any) (Transition[S, E], bool) {
	for _, t := range candidates {
		if m.guardsPass(ctx, t, event, data) {
			return t, true
		}
	}
	return Transition[S, E]{}, false
}

func (m *Machine[S, E]) guardsPass(ctx context.Context, t Transition[S, E], event E, data any) bool {
	for _, g := range t.Guards {
		if !g(ctx, m.current, event, data) {
			return false
		}
	}
	return true
}
