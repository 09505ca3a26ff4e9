package bus

import "time"

// Event represents a run event published on the bus. Kind is namespaced
// ("export.started"); Payload is owned by the publisher.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// NewEvent stamps an event with the current time.
func NewEvent(kind string, payload any) Event {
	return Event{Kind: kind, Timestamp: time.Now(), Payload: payload}
}
