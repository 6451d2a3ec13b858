package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventTurtleCreated   EventType = "turtle_created"
	EventTurtleRemoved   EventType = "turtle_removed"
	EventCommandStart    EventType = "command_start"
	EventCommandComplete EventType = "command_complete"
	EventFillComplete    EventType = "fill_complete"
	EventBatchDrained    EventType = "batch_drained"
	EventBatchDropped    EventType = "batch_dropped"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Turtle    TurtleID  `json:"turtle_id"`
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType, id TurtleID) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, Turtle: id}
}

// TurtleEvent reports a turtle joining or leaving the registry.
type TurtleEvent struct {
	EventBase
}

// CommandEvent reports a command starting or finishing on a turtle.
type CommandEvent struct {
	EventBase
	Index   int    `json:"index"`
	Command string `json:"command"`
	// Instant is set when the command ran without interpolation.
	Instant bool `json:"instant,omitempty"`
	// Degenerate is set for zero-length geometry executed as a no-op.
	Degenerate bool `json:"degenerate,omitempty"`
}

// FillEvent reports a finished fill bracket.
type FillEvent struct {
	EventBase
	Contours int `json:"contours"`
	Points   int `json:"points"`
}

// BatchEvent reports an externally submitted batch being applied or dropped.
type BatchEvent struct {
	EventBase
	Commands int    `json:"commands"`
	Reason   string `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. Nil callbacks
// are skipped. Hooks run on the frame thread and must not block.
type LifecycleHooks struct {
	OnTurtleCreated   func(*TurtleEvent)
	OnTurtleRemoved   func(*TurtleEvent)
	OnCommandStart    func(*CommandEvent)
	OnCommandComplete func(*CommandEvent)
	OnFillComplete    func(*FillEvent)
	OnBatchDrained    func(*BatchEvent)
	OnBatchDropped    func(*BatchEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTurtleCreated:   chain(h.OnTurtleCreated, other.OnTurtleCreated),
		OnTurtleRemoved:   chain(h.OnTurtleRemoved, other.OnTurtleRemoved),
		OnCommandStart:    chain(h.OnCommandStart, other.OnCommandStart),
		OnCommandComplete: chain(h.OnCommandComplete, other.OnCommandComplete),
		OnFillComplete:    chain(h.OnFillComplete, other.OnFillComplete),
		OnBatchDrained:    chain(h.OnBatchDrained, other.OnBatchDrained),
		OnBatchDropped:    chain(h.OnBatchDropped, other.OnBatchDropped),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
