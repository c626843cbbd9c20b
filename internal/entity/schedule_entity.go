package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClassSchedule is one bookable class occurrence. CurrentBookings is a
// denormalized seat counter mutated only through the conditional
// repository updates; reads clamp it defensively because historical
// drift can leave it outside [0, MaxCapacity].
type ClassSchedule struct {
	Id              uuid.UUID
	ClassName       string
	Instructor      string
	StartsAt        time.Time
	EndsAt          time.Time
	MaxCapacity     int
	CurrentBookings int
	IsCancelled     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AvailableSeats returns the bookable seat count, clamped to
// [0, MaxCapacity] regardless of counter drift.
func (s *ClassSchedule) AvailableSeats() int {
	booked := s.CurrentBookings
	if booked < 0 {
		booked = 0
	}
	free := s.MaxCapacity - booked
	if free < 0 {
		return 0
	}
	return free
}
