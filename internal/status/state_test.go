package status

import (
	"testing"

	"github.com/matheus3301/smsarchive/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Idle {
		t.Errorf("initial state = %s, want IDLE", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Idle, Preparing},
		{Idle, Failed},
		{Preparing, Loading},
		{Loading, Rendering},
		{Rendering, Indexing},
		{Rendering, Failed},
		{Indexing, Done},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Transition(Rendering); err == nil {
		t.Error("Transition(IDLE -> RENDERING) should fail")
	}
	if m.Current() != Idle {
		t.Errorf("state = %s, want IDLE (should not have changed)", m.Current())
	}
}

func TestTerminalStates(t *testing.T) {
	m := NewMachine(nil)
	walkTo(t, m, Done)
	if !m.Terminal() {
		t.Error("DONE should be terminal")
	}
	if err := m.Transition(Failed); err == nil {
		t.Error("Transition(DONE -> FAILED) should fail")
	}
	m.Fail()
	if m.Current() != Done {
		t.Errorf("Fail() after DONE changed state to %s", m.Current())
	}
}

func TestFailFromAnyActiveState(t *testing.T) {
	for _, s := range []State{Idle, Preparing, Loading, Rendering, Indexing} {
		t.Run(string(s), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, s)
			m.Fail()
			if m.Current() != Failed {
				t.Errorf("state = %s, want FAILED", m.Current())
			}
		})
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("export.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Preparing); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != EventStatusChanged {
		t.Errorf("event kind = %q, want %s", evt.Kind, EventStatusChanged)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Idle || change.To != Preparing {
		t.Errorf("change = %v -> %v, want IDLE -> PREPARING", change.From, change.To)
	}
}

// TestFullRunLifecycle walks IDLE -> PREPARING -> LOADING -> RENDERING -> INDEXING -> DONE.
func TestFullRunLifecycle(t *testing.T) {
	m := NewMachine(nil)

	steps := []State{Preparing, Loading, Rendering, Indexing, Done}
	for _, s := range steps {
		if err := m.Transition(s); err != nil {
			t.Fatalf("Transition to %s: %v (current: %s)", s, err, m.Current())
		}
	}
	if m.Current() != Done {
		t.Errorf("final state = %s, want DONE", m.Current())
	}
}

func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Idle:      {},
		Preparing: {Preparing},
		Loading:   {Preparing, Loading},
		Rendering: {Preparing, Loading, Rendering},
		Indexing:  {Preparing, Loading, Rendering, Indexing},
		Done:      {Preparing, Loading, Rendering, Indexing, Done},
		Failed:    {Failed},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
