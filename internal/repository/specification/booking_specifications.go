package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySchedule filters bookings for a schedule
type BySchedule struct {
	ScheduleID uuid.UUID
}

func (s BySchedule) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("schedule_id = ?", s.ScheduleID)
}

// ByStatus filters bookings by lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
