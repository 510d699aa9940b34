package statemachine

import "fmt"

type Option[S, E comparable] func(*Machine[S, E])

type TransitionOption[S, E comparable] func(*Transition[S, E])

// New creates a machine starting in initial.
func New[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func WithTransition[S, E comparable](from, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) {
		t := Transition[S, E]{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		m.addTransition(t)
	}
}

// WithTransitions registers the same event from several source states.
func WithTransitions[S, E comparable](froms []S, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) {
		for _, from := range froms {
			WithTransition(from, to, event, opts...)(m)
		}
	}
}

func WithListener[S, E comparable](l Listener[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) {
		if l != nil {
			m.listeners = append(m.listeners, l)
		}
	}
}

func WithGuard[S, E comparable](g Guard[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		if g != nil {
			t.Guards = append(t.Guards, g)
		}
	}
}

func WithAction[S, E comparable](a Action[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
}

// Describe returns one "from --event--> to" line per registered transition,
// in no particular order.
func (m *Machine[S, E]) Describe() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for _, byEvent := range m.transitions {
		for _, ts := range byEvent {
			for _, t := range ts {
				out = append(out, fmt.Sprintf("%v --%v--> %v", t.From, t.Event, t.To))
			}
		}
	}
	return out
}
