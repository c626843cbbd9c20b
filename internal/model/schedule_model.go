package model

import (
	"time"

	"github.com/google/uuid"
)

type ClassSchedule struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClassName       string    `gorm:"type:varchar(255);not null"`
	Instructor      string    `gorm:"type:varchar(255);not null"`
	StartsAt        time.Time `gorm:"not null;index"`
	EndsAt          time.Time `gorm:"not null"`
	MaxCapacity     int       `gorm:"not null"`
	CurrentBookings int       `gorm:"not null;default:0"`
	IsCancelled     bool      `gorm:"default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (ClassSchedule) TableName() string {
	return "class_schedules"
}
