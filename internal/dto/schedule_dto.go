package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateScheduleRequest struct {
	ClassName   string    `json:"class_name" validate:"required"`
	Instructor  string    `json:"instructor" validate:"required"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	MaxCapacity int       `json:"max_capacity" validate:"required,gt=0"`
}

type UpdateScheduleRequest struct {
	ClassName   *string    `json:"class_name,omitempty"`
	Instructor  *string    `json:"instructor,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	MaxCapacity *int       `json:"max_capacity,omitempty" validate:"omitempty,gt=0"`
}

type ScheduleResponse struct {
	Id             uuid.UUID `json:"id"`
	ClassName      string    `json:"class_name"`
	Instructor     string    `json:"instructor"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	MaxCapacity    int       `json:"max_capacity"`
	AvailableSeats int       `json:"available_seats"`
	IsCancelled    bool      `json:"is_cancelled"`
}
