// Package auth owns the bearer session shared by every primary-backend call.
package auth

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/padesk/internal/bus"
)

// State is the session's refresh-protocol state.
type State string

const (
	Valid      State = "VALID"
	Refreshing State = "REFRESHING"
	Expired    State = "EXPIRED"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Valid:      {Refreshing, Expired},
	Refreshing: {Valid, Expired},
	Expired:    {Valid},
}

// Machine tracks and enforces session state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a state machine starting in the given state.
func NewMachine(initial State, b *bus.Bus) *Machine {
	return &Machine{
		current: initial,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindSessionStatus,
			Timestamp: time.Now(),
			Payload: StatusChange{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
