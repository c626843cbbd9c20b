package contract

import (
	"context"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Purchase, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Purchase, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ConsumeCredit atomically decrements classes_remaining by 1,
	// conditioned on classes_remaining == expectedRemaining. Returns
	// ErrStaleState when the expectation no longer holds,
	// ErrInsufficientCredit when the purchase is already at 0, and
	// ErrNotFound when the purchase does not exist.
	ConsumeCredit(ctx context.Context, id uuid.UUID, expectedRemaining int) error

	// RefundCredit atomically increments classes_remaining by 1,
	// refusing to exceed total_classes. Returns ErrCreditClamped when
	// the purchase is already at full credit.
	RefundCredit(ctx context.Context, id uuid.UUID) error
}
