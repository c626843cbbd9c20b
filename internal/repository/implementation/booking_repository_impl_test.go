package implementation

import (
	"context"
	"testing"
	"time"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/repository/contract"
	"talasofilia-pilates-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBooking(t *testing.T, db *gorm.DB) *entity.ClassBooking {
	t.Helper()
	repo := NewBookingRepository(db)
	b := &entity.ClassBooking{
		Id:         uuid.New(),
		UserId:     uuid.New(),
		ScheduleId: uuid.New(),
		PurchaseId: uuid.New(),
		Status:     entity.BookingStatusConfirmed,
		BookedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestTransitionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("flips a confirmed booking once", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewBookingRepository(db)
		b := seedBooking(t, db)
		now := time.Now()

		err := repo.TransitionStatus(ctx, b.Id, entity.BookingStatusConfirmed, entity.BookingStatusCancelled, &now)
		require.NoError(t, err)

		fresh, err := repo.FindOne(ctx, specification.ByID{ID: b.Id})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, fresh.Status)
		assert.NotNil(t, fresh.CancelledAt)
	})

	t.Run("second flip loses", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewBookingRepository(db)
		b := seedBooking(t, db)
		now := time.Now()

		require.NoError(t, repo.TransitionStatus(ctx, b.Id, entity.BookingStatusConfirmed, entity.BookingStatusCancelled, &now))

		err := repo.TransitionStatus(ctx, b.Id, entity.BookingStatusConfirmed, entity.BookingStatusCancelled, &now)
		assert.ErrorIs(t, err, contract.ErrStaleState)
	})

	t.Run("cancelled booking cannot be attended", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewBookingRepository(db)
		b := seedBooking(t, db)
		now := time.Now()

		require.NoError(t, repo.TransitionStatus(ctx, b.Id, entity.BookingStatusConfirmed, entity.BookingStatusCancelled, &now))

		err := repo.TransitionStatus(ctx, b.Id, entity.BookingStatusConfirmed, entity.BookingStatusAttended, nil)
		assert.ErrorIs(t, err, contract.ErrStaleState)

		fresh, _ := repo.FindOne(ctx, specification.ByID{ID: b.Id})
		assert.Equal(t, entity.BookingStatusCancelled, fresh.Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewBookingRepository(db)

		err := repo.TransitionStatus(ctx, uuid.New(), entity.BookingStatusConfirmed, entity.BookingStatusCancelled, nil)
		assert.ErrorIs(t, err, contract.ErrNotFound)
	})
}
