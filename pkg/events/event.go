package events

import "time"

// Topic names used on both the in-process bus and the external NATS
// stream.
const (
	TopicBookingConfirmed  = "BOOKING_CONFIRMED"
	TopicBookingCancelled  = "BOOKING_CANCELLED"
	TopicPurchaseCompleted = "PURCHASE_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "BOOKING_CONFIRMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common concrete implementation used by publishers.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
