package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Purchase struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	PackageId        uuid.UUID `gorm:"type:uuid;not null;index"`
	PackageName      string    `gorm:"type:varchar(255);not null"`
	TotalClasses     int       `gorm:"not null"`
	ClassesRemaining int       `gorm:"not null"`
	AmountPaid       float64   `gorm:"type:decimal(10,2);not null"`
	Currency         string    `gorm:"type:varchar(10);not null;default:'MXN'"`
	PaymentProvider  string    `gorm:"type:varchar(50);not null"`
	PaymentStatus    string    `gorm:"type:varchar(50);not null"`
	// PaymentRef is the provider payment id; the unique index is what
	// makes webhook replay detection race-safe.
	PaymentRef      string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	ProviderPayload datatypes.JSON `gorm:"type:jsonb"`
	PurchaseDate    time.Time      `gorm:"not null"`
	ExpiryDate      time.Time      `gorm:"not null;index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Purchase) TableName() string {
	return "purchases"
}
