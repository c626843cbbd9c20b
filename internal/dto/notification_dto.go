package dto

import "github.com/google/uuid"

const (
	NotificationBookingConfirmed  = "booking_confirmed"
	NotificationBookingCancelled  = "booking_cancelled"
	NotificationPurchaseCompleted = "purchase_completed"
)

// NotificationMessage is the payload published on the in-process bus
// for the notification consumer. Ids only; the consumer re-reads the
// rows so emails always reflect current state.
type NotificationMessage struct {
	Kind       string    `json:"kind"`
	UserId     uuid.UUID `json:"user_id"`
	BookingId  uuid.UUID `json:"booking_id,omitempty"`
	ScheduleId uuid.UUID `json:"schedule_id,omitempty"`
	PurchaseId uuid.UUID `json:"purchase_id,omitempty"`
}
