package bus

import "time"

// Event types published by the live driver.
const (
	EventRunStarted = "run.started"
	EventTick       = "tick"
	EventRunStopped = "run.stopped"
)

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Handlers subscribe by event type and are called synchronously in the
// publisher's goroutine, so they should return quickly. Handler errors are
// joined and returned from Publish.
type EventBus interface {
	Publish(event Event) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe is safe to call with nil.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// Metrics is only updated while at least one observer is registered.
	Metrics() Metrics
}

// Event is an immutable message. Source is the run id for driver events and
// Data the published *models.Snapshot.
type Event struct {
	Type      string
	Source    string
	Timestamp time.Time
	Data      any
}

func NewEvent(typ, source string, data any) Event {
	return Event{Type: typ, Source: source, Timestamp: time.Now(), Data: data}
}

type EventHandler func(event Event) error

type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is told about every delivery.
type Observer interface {
	OnDelivered(eventType string, handlers int, err error, took time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	Subscribers       uint64
}
