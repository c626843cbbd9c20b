package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookClassRequest struct {
	ScheduleId uuid.UUID `json:"schedule_id" validate:"required"`
}

type BookingResponse struct {
	Id          uuid.UUID  `json:"id"`
	ScheduleId  uuid.UUID  `json:"schedule_id"`
	PurchaseId  uuid.UUID  `json:"purchase_id"`
	Status      string     `json:"status"`
	BookedAt    time.Time  `json:"booked_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type AttendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=attended no_show"`
}
