package specification

import (
	"time"

	"gorm.io/gorm"
)

// UsablePurchase filters purchases that can back a booking: completed
// payment, remaining credit, not yet expired. Combine with UserOwnedBy
// and OrderBy{expiry_date} to pick the consumable candidate.
type UsablePurchase struct {
	Now time.Time
}

func (s UsablePurchase) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ? AND classes_remaining > 0 AND expiry_date > ?",
		"completed", s.Now)
}

// ByPaymentRef filters by the provider payment id (idempotency key).
type ByPaymentRef struct {
	Ref string
}

func (s ByPaymentRef) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_ref = ?", s.Ref)
}
