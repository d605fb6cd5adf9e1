package eventbus

import "sync"

// EventID describes an identifier for a published event.
type EventID interface {
	Value() uint
	String() string
}

// PresenceEventID identifies events related to audio output presence.
type PresenceEventID uint

const (
	PresenceChanged PresenceEventID = iota + 1
	PresenceError
	OutputDevicesChanged
)

// SubscriberID describes a subscription to an event stream.
type SubscriberID struct {
	// C receives published event data.
	C <-chan any

	active bool
	unsub  func()
	once   *sync.Once
}

// Value returns the numeric value of the event ID.
func (p PresenceEventID) Value() uint {
	return uint(p)
}

// String returns the name of the event ID.
func (p PresenceEventID) String() string {
	switch p {
	case PresenceChanged:
		return "presence-changed"
	case PresenceError:
		return "presence-error"
	case OutputDevicesChanged:
		return "output-devices-changed"
	}

	return "unknown"
}

// IsActive reports whether the subscription is receiving events.
func (s SubscriberID) IsActive() bool {
	return s.active
}

// Unsubscribe stops the subscription. It is safe to call multiple times.
func (s SubscriberID) Unsubscribe() {
	if !s.active || s.unsub == nil {
		return
	}

	if s.once == nil {
		s.unsub()
		return
	}

	s.once.Do(s.unsub)
}
