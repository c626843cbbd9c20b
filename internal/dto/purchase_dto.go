package dto

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseResponse struct {
	Id               uuid.UUID `json:"id"`
	PackageName      string    `json:"package_name"`
	TotalClasses     int       `json:"total_classes"`
	ClassesRemaining int       `json:"classes_remaining"`
	AmountPaid       float64   `json:"amount_paid"`
	Currency         string    `json:"currency"`
	PaymentProvider  string    `json:"payment_provider"`
	PaymentStatus    string    `json:"payment_status"`
	PurchaseDate     time.Time `json:"purchase_date"`
	ExpiryDate       time.Time `json:"expiry_date"`
	IsUsable         bool      `json:"is_usable"`
}

type PackageResponse struct {
	Id              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	NumberOfClasses int       `json:"number_of_classes"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	ValidityDays    int       `json:"validity_days"`
}

type CreatePackageRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description"`
	NumberOfClasses int     `json:"number_of_classes" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	Currency        string  `json:"currency" validate:"required,len=3"`
	ValidityDays    int     `json:"validity_days" validate:"required,gt=0"`
	SortOrder       int     `json:"sort_order"`
}

// CashGrantRequest is the admin operation that credits a user without a
// payment provider. Reference, when present, makes the grant idempotent
// across retried admin submissions.
type CashGrantRequest struct {
	UserId     uuid.UUID `json:"user_id" validate:"required"`
	PackageId  uuid.UUID `json:"package_id" validate:"required"`
	AmountPaid float64   `json:"amount_paid" validate:"gte=0"`
	Reference  string    `json:"reference,omitempty"`
}
