// Package status tracks the phase of an export run.
package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/smsarchive/internal/bus"
)

// State is a phase of an export run.
type State string

const (
	Idle      State = "IDLE"
	Preparing State = "PREPARING"
	Loading   State = "LOADING"
	Rendering State = "RENDERING"
	Indexing  State = "INDEXING"
	Done      State = "DONE"
	Failed    State = "FAILED"
)

// EventStatusChanged is published on every transition.
const EventStatusChanged = "export.status_changed"

// A run moves forward only; any active phase may fail. Done and Failed are terminal.
var validTransitions = map[State][]State{
	Idle:      {Preparing, Failed},
	Preparing: {Loading, Failed},
	Loading:   {Rendering, Failed},
	Rendering: {Indexing, Failed},
	Indexing:  {Done, Failed},
}

// Machine tracks and enforces run phase transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Idle state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Idle,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Terminal reports whether the run has finished, successfully or not.
func (m *Machine) Terminal() bool {
	s := m.Current()
	return s == Done || s == Failed
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
		m.bus.Publish(bus.NewEvent(EventStatusChanged, StatusChange{From: from, To: to}))
	}
	return nil
}

// Fail moves to Failed from any active state. It is a no-op once terminal.
func (m *Machine) Fail() {
	if m.Terminal() {
		return
	}
	_ = m.Transition(Failed)
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
