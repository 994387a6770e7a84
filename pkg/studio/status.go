package studio

import "time"

// Status represents the current state of a Studio instance.
type Status struct {
	Running bool
	// StartTime is when the instance was last started (zero if never started).
	StartTime time.Time
	// Changes counts state transitions since the instance was created.
	Changes uint64
	// LastError is the most recent error reported (nil if none).
	LastError error
	// ConfigSource is the preset path, "reader" or "state".
	ConfigSource string
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously; do not block in the handler.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle or state event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates event types.
type EventType int

const (
	// EventStarted is emitted when the instance starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the instance stops, including when the
	// preview window is closed.
	EventStopped
	// EventConfigReloaded is emitted when the preset is reloaded.
	EventConfigReloaded
	// EventStateChanged is emitted after every state transition. The
	// message is the new background value.
	EventStateChanged
	// EventCopied is emitted after the declaration reaches the clipboard.
	EventCopied
	// EventError is emitted alongside every reported error.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventConfigReloaded:
		return "config_reloaded"
	case EventStateChanged:
		return "state_changed"
	case EventCopied:
		return "copied"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
