package specification

import (
	"time"

	"gorm.io/gorm"
)

// UpcomingSchedule filters schedules starting after Now that are not
// cancelled.
type UpcomingSchedule struct {
	Now time.Time
}

func (s UpcomingSchedule) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("starts_at > ? AND is_cancelled = ?", s.Now, false)
}
