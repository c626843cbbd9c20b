package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClassPackage is a purchasable credit pack: a number of class credits
// valid for a fixed number of days after purchase.
type ClassPackage struct {
	Id              uuid.UUID
	Name            string
	Description     string
	NumberOfClasses int
	Price           float64
	Currency        string
	ValidityDays    int
	IsActive        bool
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
