package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func grantInput(userId uuid.UUID, ref string, classes, validityDays int) GrantInput {
	return GrantInput{
		UserId:          userId,
		PackageId:       uuid.New(),
		PackageName:     "8 Class Pack",
		NumberOfClasses: classes,
		ValidityDays:    validityDays,
		AmountPaid:      2400,
		Currency:        "MXN",
		Provider:        entity.PaymentProviderStripe,
		PaymentRef:      ref,
	}
}

func TestGrant(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a full-credit purchase", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewCreditService(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger())

		p, err := svc.Grant(ctx, grantInput(uuid.New(), "pi_abc", 8, 30))
		require.NoError(t, err)

		assert.Equal(t, 8, p.TotalClasses)
		assert.Equal(t, 8, p.ClassesRemaining)
		assert.Equal(t, entity.PaymentStatusCompleted, p.PaymentStatus)
		assert.True(t, p.Usable(time.Now()))
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), p.ExpiryDate, time.Minute)
	})

	t.Run("replayed payment ref grants once", func(t *testing.T) {
		db := newTestDB(t)
		factory := unitofwork.NewRepositoryFactory(db)
		svc := NewCreditService(factory, logger.NewNopLogger())
		userId := uuid.New()

		first, err := svc.Grant(ctx, grantInput(userId, "pi_replay", 8, 30))
		require.NoError(t, err)

		second, err := svc.Grant(ctx, grantInput(userId, "pi_replay", 8, 30))
		assert.ErrorIs(t, err, ErrDuplicateGrant)
		require.NotNil(t, second)
		assert.Equal(t, first.Id, second.Id, "the replay must hand back the original purchase")

		count, err := factory.NewUnitOfWork(ctx).PurchaseRepository().Count(ctx,
			specification.ByPaymentRef{Ref: "pi_replay"},
		)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("simultaneous deliveries grant once", func(t *testing.T) {
		db := newTestDB(t)
		factory := unitofwork.NewRepositoryFactory(db)
		svc := NewCreditService(factory, logger.NewNopLogger())
		userId := uuid.New()

		var wg sync.WaitGroup
		results := make([]*entity.Purchase, 2)
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = svc.Grant(ctx, grantInput(userId, "pi_parallel", 8, 30))
			}(i)
		}
		wg.Wait()

		var granted, duplicates int
		for i, err := range errs {
			switch {
			case err == nil:
				granted++
			case err == ErrDuplicateGrant:
				duplicates++
				require.NotNil(t, results[i], "the duplicate must still see the winner")
			default:
				t.Fatalf("unexpected outcome: %v", err)
			}
		}
		assert.Equal(t, 1, granted)
		assert.Equal(t, 1, duplicates)
		assert.Equal(t, results[0].Id, results[1].Id)

		count, err := factory.NewUnitOfWork(ctx).PurchaseRepository().Count(ctx,
			specification.ByPaymentRef{Ref: "pi_parallel"},
		)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestFindConsumable(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	seed := func(t *testing.T, db *gorm.DB, userId uuid.UUID, remaining int, expiry time.Time, status entity.PaymentStatus) *entity.Purchase {
		t.Helper()
		p := &entity.Purchase{
			Id:               uuid.New(),
			UserId:           userId,
			PackageId:        uuid.New(),
			PackageName:      "Pack",
			TotalClasses:     10,
			ClassesRemaining: remaining,
			AmountPaid:       1000,
			Currency:         "MXN",
			PaymentProvider:  entity.PaymentProviderCash,
			PaymentStatus:    status,
			PaymentRef:       "cash_" + uuid.NewString(),
			PurchaseDate:     now,
			ExpiryDate:       expiry,
		}
		require.NoError(t, unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).PurchaseRepository().Create(ctx, p))
		return p
	}

	t.Run("prefers the soonest expiry", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewCreditService(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger())
		userId := uuid.New()

		seed(t, db, userId, 3, now.AddDate(0, 0, 60), entity.PaymentStatusCompleted)
		soon := seed(t, db, userId, 3, now.AddDate(0, 0, 7), entity.PaymentStatusCompleted)
		seed(t, db, userId, 3, now.AddDate(0, 0, -1), entity.PaymentStatusCompleted)

		got, err := svc.FindConsumable(ctx, userId, now)
		require.NoError(t, err)
		assert.Equal(t, soon.Id, got.Id)
	})

	t.Run("no usable credit", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewCreditService(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger())
		userId := uuid.New()

		seed(t, db, userId, 0, now.AddDate(0, 0, 10), entity.PaymentStatusCompleted)
		seed(t, db, userId, 5, now.AddDate(0, 0, -2), entity.PaymentStatusCompleted)
		seed(t, db, userId, 5, now.AddDate(0, 0, 10), entity.PaymentStatusPending)

		_, err := svc.FindConsumable(ctx, userId, now)
		assert.ErrorIs(t, err, ErrNoCreditAvailable)
	})
}

func TestConsumeRetriesStaleRead(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	svc := NewCreditService(factory, logger.NewNopLogger())

	p, err := svc.Grant(ctx, grantInput(uuid.New(), "pi_stale", 8, 30))
	require.NoError(t, err)

	// Another request consumed first; our snapshot is out of date.
	require.NoError(t, factory.NewUnitOfWork(ctx).PurchaseRepository().ConsumeCredit(ctx, p.Id, 8))

	require.NoError(t, svc.Consume(ctx, p))

	fresh, err := factory.NewUnitOfWork(ctx).PurchaseRepository().FindOne(ctx, specification.ByID{ID: p.Id})
	require.NoError(t, err)
	assert.Equal(t, 6, fresh.ClassesRemaining)
}

func TestRefundClampIsDropped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	svc := NewCreditService(factory, logger.NewNopLogger())

	p, err := svc.Grant(ctx, grantInput(uuid.New(), "pi_full", 4, 30))
	require.NoError(t, err)

	// Already at full credit; the refund must be swallowed, not applied.
	require.NoError(t, svc.Refund(ctx, p.Id))

	fresh, err := factory.NewUnitOfWork(ctx).PurchaseRepository().FindOne(ctx, specification.ByID{ID: p.Id})
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.ClassesRemaining)
}
