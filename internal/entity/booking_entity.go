package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusAttended  BookingStatus = "attended"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// ClassBooking is a user's reservation of one seat on a schedule,
// backed by one credit unit of a purchase. Lifecycle:
// confirmed -> cancelled | attended | no_show (terminal).
type ClassBooking struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ScheduleId  uuid.UUID
	PurchaseId  uuid.UUID
	Status      BookingStatus
	BookedAt    time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
