package events

// Event is the minimal contract for anything published on the external bus.
type Event interface {
	// EventType returns the type tag (e.g. "phase_completed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}
}

// BaseEvent is a plain implementation for ad-hoc publishers.
type BaseEvent struct {
	Type string
	Data map[string]interface{}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}
