package model

import (
	"time"

	"github.com/google/uuid"
)

type ClassPackage struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Description     string    `gorm:"type:text"`
	NumberOfClasses int       `gorm:"not null"`
	Price           float64   `gorm:"type:decimal(10,2);not null"`
	Currency        string    `gorm:"type:varchar(10);not null;default:'MXN'"`
	ValidityDays    int       `gorm:"not null"`
	IsActive        bool      `gorm:"default:true"`
	SortOrder       int       `gorm:"default:0"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (ClassPackage) TableName() string {
	return "class_packages"
}
