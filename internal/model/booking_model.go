package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassBooking rows are kept forever except for the compensation path,
// which hard-deletes a half-created booking. The partial unique index
// on (user_id, schedule_id) WHERE status = 'confirmed' is created by
// cmd/migrate; GORM tags cannot express it.
type ClassBooking struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ScheduleId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	PurchaseId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status      string     `gorm:"type:varchar(50);not null"`
	BookedAt    time.Time  `gorm:"not null"`
	CancelledAt *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (ClassBooking) TableName() string {
	return "class_bookings"
}
