package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/repository/contract"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GrantInput carries everything needed to mint a purchase. PaymentRef
// is the idempotency key: one grant per distinct ref, ever.
type GrantInput struct {
	UserId          uuid.UUID
	PackageId       uuid.UUID
	PackageName     string
	NumberOfClasses int
	ValidityDays    int
	AmountPaid      float64
	Currency        string
	Provider        entity.PaymentProvider
	PaymentRef      string
	ProviderPayload []byte
}

type ICreditService interface {
	// Grant creates a completed purchase with full credit. Returns
	// ErrDuplicateGrant when PaymentRef was already granted.
	Grant(ctx context.Context, in GrantInput) (*entity.Purchase, error)

	// FindConsumable picks the purchase a new booking should draw
	// from: usable now, soonest expiry first. Returns
	// ErrNoCreditAvailable when the user has none.
	FindConsumable(ctx context.Context, userId uuid.UUID, now time.Time) (*entity.Purchase, error)

	// Consume decrements one credit from the purchase, retrying once
	// on a concurrent counter change.
	Consume(ctx context.Context, purchase *entity.Purchase) error

	// Refund restores one credit to the purchase. A refund that would
	// exceed total_classes is dropped and logged, never applied.
	Refund(ctx context.Context, purchaseId uuid.UUID) error

	ListPurchases(ctx context.Context, userId uuid.UUID) ([]*entity.Purchase, error)
}

type creditService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewCreditService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ICreditService {
	return &creditService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *creditService) Grant(ctx context.Context, in GrantInput) (*entity.Purchase, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	repo := uow.PurchaseRepository()

	existing, err := repo.FindOne(ctx, specification.ByPaymentRef{Ref: in.PaymentRef})
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if existing != nil {
		uow.Rollback()
		return existing, ErrDuplicateGrant
	}

	now := time.Now()
	purchase := entity.Purchase{
		Id:               uuid.New(),
		UserId:           in.UserId,
		PackageId:        in.PackageId,
		PackageName:      in.PackageName,
		TotalClasses:     in.NumberOfClasses,
		ClassesRemaining: in.NumberOfClasses,
		AmountPaid:       in.AmountPaid,
		Currency:         in.Currency,
		PaymentProvider:  in.Provider,
		PaymentStatus:    entity.PaymentStatusCompleted,
		PaymentRef:       in.PaymentRef,
		ProviderPayload:  in.ProviderPayload,
		PurchaseDate:     now,
		ExpiryDate:       now.AddDate(0, 0, in.ValidityDays),
	}

	if err := repo.Create(ctx, &purchase); err != nil {
		uow.Rollback()
		// Two deliveries racing past the FindOne both try to insert;
		// the unique index on payment_ref lets exactly one through.
		// The loser's transaction is gone, so the winner is read back
		// on a fresh one.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, findErr := s.uowFactory.NewUnitOfWork(ctx).PurchaseRepository().
				FindOne(ctx, specification.ByPaymentRef{Ref: in.PaymentRef})
			if findErr != nil {
				return nil, findErr
			}
			return winner, ErrDuplicateGrant
		}
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("CreditService", "Credit granted", map[string]interface{}{
		"purchase_id": purchase.Id,
		"user_id":     in.UserId,
		"payment_ref": in.PaymentRef,
		"classes":     in.NumberOfClasses,
	})

	return &purchase, nil
}

func (s *creditService) FindConsumable(ctx context.Context, userId uuid.UUID, now time.Time) (*entity.Purchase, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	purchase, err := uow.PurchaseRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.UsablePurchase{Now: now},
		specification.OrderBy{Field: "expiry_date"},
	)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrNoCreditAvailable
	}
	return purchase, nil
}

func (s *creditService) Consume(ctx context.Context, purchase *entity.Purchase) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.PurchaseRepository()

	err := repo.ConsumeCredit(ctx, purchase.Id, purchase.ClassesRemaining)
	if !errors.Is(err, contract.ErrStaleState) {
		return err
	}

	// Someone else moved the counter between our read and the update.
	// Re-read and try once more; a second miss bubbles up.
	fresh, findErr := repo.FindOne(ctx, specification.ByID{ID: purchase.Id})
	if findErr != nil {
		return findErr
	}
	if fresh == nil {
		return contract.ErrNotFound
	}
	if !fresh.Usable(time.Now()) {
		return contract.ErrInsufficientCredit
	}
	return repo.ConsumeCredit(ctx, fresh.Id, fresh.ClassesRemaining)
}

func (s *creditService) Refund(ctx context.Context, purchaseId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.PurchaseRepository().RefundCredit(ctx, purchaseId)
	if errors.Is(err, contract.ErrCreditClamped) {
		// A refund beyond total_classes means a double cancellation or
		// counter drift. The refund is dropped; the ledger bound wins.
		s.logger.Warn("CreditService", "Refund clamped at full credit", map[string]interface{}{
			"purchase_id": purchaseId,
		})
		return nil
	}
	return err
}

func (s *creditService) ListPurchases(ctx context.Context, userId uuid.UUID) ([]*entity.Purchase, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PurchaseRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "purchase_date", Desc: true},
	)
}

// MintCashRef builds a deterministic payment ref for admin cash grants
// so a retried submission with the same reference stays idempotent.
func MintCashRef(reference string) string {
	if reference != "" {
		return fmt.Sprintf("cash_%s", reference)
	}
	return fmt.Sprintf("cash_%s", uuid.NewString())
}
