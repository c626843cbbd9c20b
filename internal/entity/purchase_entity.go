package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentProvider string
type PaymentStatus string

const (
	PaymentProviderStripe      PaymentProvider = "stripe"
	PaymentProviderMercadoPago PaymentProvider = "mercado_pago"
	PaymentProviderCash        PaymentProvider = "cash"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Purchase is a credit grant record. ClassesRemaining is the ledger
// counter consumed by bookings and restored by cancellations; it must
// stay within [0, TotalClasses]. PaymentRef is the provider's payment
// identifier and doubles as the webhook idempotency key. Purchases are
// never deleted.
type Purchase struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	PackageId        uuid.UUID
	PackageName      string
	TotalClasses     int
	ClassesRemaining int
	AmountPaid       float64
	Currency         string
	PaymentProvider  PaymentProvider
	PaymentStatus    PaymentStatus
	PaymentRef       string
	ProviderPayload  []byte
	PurchaseDate     time.Time
	ExpiryDate       time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Usable reports whether this purchase can back a new booking.
func (p *Purchase) Usable(now time.Time) bool {
	return p.PaymentStatus == PaymentStatusCompleted &&
		p.ClassesRemaining > 0 &&
		now.Before(p.ExpiryDate)
}
