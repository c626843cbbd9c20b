package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/repository/contract"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type bookingFixture struct {
	factory unitofwork.RepositoryFactory
	credit  ICreditService
	booking IBookingService
}

func newBookingFixture(t *testing.T, db *gorm.DB) *bookingFixture {
	t.Helper()
	factory := unitofwork.NewRepositoryFactory(db)
	nop := logger.NewNopLogger()
	credit := NewCreditService(factory, nop)
	booking := NewBookingService(
		factory,
		credit,
		NewCompensator(factory, nop),
		nil,
		nil,
		2*time.Hour,
		nop,
	)
	return &bookingFixture{factory: factory, credit: credit, booking: booking}
}

func (f *bookingFixture) seedPurchase(t *testing.T, userId uuid.UUID, total, remaining int) *entity.Purchase {
	t.Helper()
	now := time.Now()
	p := &entity.Purchase{
		Id:               uuid.New(),
		UserId:           userId,
		PackageId:        uuid.New(),
		PackageName:      "Pack",
		TotalClasses:     total,
		ClassesRemaining: remaining,
		AmountPaid:       1500,
		Currency:         "MXN",
		PaymentProvider:  entity.PaymentProviderStripe,
		PaymentStatus:    entity.PaymentStatusCompleted,
		PaymentRef:       "pi_" + uuid.NewString(),
		PurchaseDate:     now,
		ExpiryDate:       now.AddDate(0, 0, 30),
	}
	require.NoError(t, f.factory.NewUnitOfWork(context.Background()).PurchaseRepository().Create(context.Background(), p))
	return p
}

func (f *bookingFixture) seedSchedule(t *testing.T, startsIn time.Duration, capacity int) *entity.ClassSchedule {
	t.Helper()
	s := &entity.ClassSchedule{
		Id:          uuid.New(),
		ClassName:   "Reformer Flow",
		Instructor:  "Maria",
		StartsAt:    time.Now().Add(startsIn),
		EndsAt:      time.Now().Add(startsIn + time.Hour),
		MaxCapacity: capacity,
	}
	require.NoError(t, f.factory.NewUnitOfWork(context.Background()).ScheduleRepository().Create(context.Background(), s))
	return s
}

func (f *bookingFixture) remaining(t *testing.T, purchaseId uuid.UUID) int {
	t.Helper()
	p, err := f.factory.NewUnitOfWork(context.Background()).PurchaseRepository().FindOne(context.Background(), specification.ByID{ID: purchaseId})
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.ClassesRemaining
}

func (f *bookingFixture) seats(t *testing.T, scheduleId uuid.UUID) int {
	t.Helper()
	s, err := f.factory.NewUnitOfWork(context.Background()).ScheduleRepository().FindOne(context.Background(), specification.ByID{ID: scheduleId})
	require.NoError(t, err)
	require.NotNil(t, s)
	return s.CurrentBookings
}

func TestBookClass(t *testing.T) {
	ctx := context.Background()

	t.Run("book then cancel restores both counters", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		purchase := f.seedPurchase(t, userId, 5, 3)
		schedule := f.seedSchedule(t, 24*time.Hour, 10)

		booked, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		require.NoError(t, err)
		assert.Equal(t, string(entity.BookingStatusConfirmed), booked.Status)
		assert.Equal(t, purchase.Id, booked.PurchaseId)
		assert.Equal(t, 2, f.remaining(t, purchase.Id))
		assert.Equal(t, 1, f.seats(t, schedule.Id))

		cancelled, err := f.booking.CancelBooking(ctx, userId, false, booked.Id)
		require.NoError(t, err)
		assert.Equal(t, string(entity.BookingStatusCancelled), cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, 3, f.remaining(t, purchase.Id))
		assert.Equal(t, 0, f.seats(t, schedule.Id))
	})

	t.Run("rejects a class that already started", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		f.seedPurchase(t, userId, 5, 5)
		schedule := f.seedSchedule(t, -time.Hour, 10)

		_, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		assert.ErrorIs(t, err, ErrClassPast)
	})

	t.Run("rejects a second booking on the same class", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		purchase := f.seedPurchase(t, userId, 5, 5)
		schedule := f.seedSchedule(t, 24*time.Hour, 10)

		_, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		require.NoError(t, err)

		_, err = f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		assert.ErrorIs(t, err, ErrAlreadyBooked)
		assert.Equal(t, 4, f.remaining(t, purchase.Id), "the rejected attempt must not burn a credit")
	})

	t.Run("rejects without usable credit", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		f.seedPurchase(t, userId, 5, 0)
		schedule := f.seedSchedule(t, 24*time.Hour, 10)

		_, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		assert.ErrorIs(t, err, ErrNoCreditAvailable)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		_, err := f.booking.BookClass(ctx, uuid.New(), &dto.BookClassRequest{ScheduleId: uuid.New()})
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}

func TestBookClassSingleSeatRace(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, newTestDB(t))
	schedule := f.seedSchedule(t, 24*time.Hour, 1)

	userA, userB := uuid.New(), uuid.New()
	pa := f.seedPurchase(t, userA, 5, 5)
	pb := f.seedPurchase(t, userB, 5, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userId := range []uuid.UUID{userA, userB} {
		wg.Add(1)
		go func(i int, userId uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		}(i, userId)
	}
	wg.Wait()

	var successes, fulls int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == ErrClassFull:
			fulls++
		default:
			t.Fatalf("unexpected outcome: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, fulls)
	assert.Equal(t, 1, f.seats(t, schedule.Id))

	// The loser's credit must have been compensated back.
	assert.Equal(t, 10, f.remaining(t, pa.Id)+f.remaining(t, pb.Id)+1)

	confirmed, err := f.factory.NewUnitOfWork(ctx).BookingRepository().Count(ctx,
		specification.BySchedule{ScheduleID: schedule.Id},
		specification.ByStatus{Status: string(entity.BookingStatusConfirmed)},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 1, confirmed)
}

func TestBookClassLastCreditRace(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, newTestDB(t))
	userId := uuid.New()
	purchase := f.seedPurchase(t, userId, 5, 1)

	const n = 4
	schedules := make([]*entity.ClassSchedule, n)
	for i := range schedules {
		schedules[i] = f.seedSchedule(t, 24*time.Hour, 10)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedules[i].Id})
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrNoCreditAvailable)
		}
	}
	assert.Equal(t, 1, successes, "one credit backs exactly one booking")
	assert.Equal(t, 0, f.remaining(t, purchase.Id))

	confirmed, err := f.factory.NewUnitOfWork(ctx).BookingRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: string(entity.BookingStatusConfirmed)},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 1, confirmed)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("window closed for customers", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		f.seedPurchase(t, userId, 5, 5)
		schedule := f.seedSchedule(t, time.Hour, 10) // inside the 2h window

		booked, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		require.NoError(t, err)

		_, err = f.booking.CancelBooking(ctx, userId, false, booked.Id)
		assert.ErrorIs(t, err, ErrNotCancellable)

		// Admins may cancel inside the window.
		cancelled, err := f.booking.CancelBooking(ctx, uuid.New(), true, booked.Id)
		require.NoError(t, err)
		assert.Equal(t, string(entity.BookingStatusCancelled), cancelled.Status)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		f.seedPurchase(t, userId, 5, 5)
		schedule := f.seedSchedule(t, 24*time.Hour, 10)

		booked, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		require.NoError(t, err)

		_, err = f.booking.CancelBooking(ctx, uuid.New(), false, booked.Id)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("cancelling twice is rejected and refunds once", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		purchase := f.seedPurchase(t, userId, 5, 5)
		schedule := f.seedSchedule(t, 24*time.Hour, 10)

		booked, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		require.NoError(t, err)

		_, err = f.booking.CancelBooking(ctx, userId, false, booked.Id)
		require.NoError(t, err)

		_, err = f.booking.CancelBooking(ctx, userId, false, booked.Id)
		assert.ErrorIs(t, err, ErrNotCancellable)
		assert.Equal(t, 5, f.remaining(t, purchase.Id))
		assert.Equal(t, 0, f.seats(t, schedule.Id))
	})

	t.Run("cancellation completed elsewhere wins over a stale read", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		purchase := f.seedPurchase(t, userId, 5, 3)
		schedule := f.seedSchedule(t, 24*time.Hour, 10)

		booked, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		require.NoError(t, err)
		require.Equal(t, 2, f.remaining(t, purchase.Id))

		// An admin finishes the full cancellation while the owner's
		// request still holds the confirmed row it read.
		_, err = f.booking.CancelBooking(ctx, uuid.New(), true, booked.Id)
		require.NoError(t, err)
		require.Equal(t, 3, f.remaining(t, purchase.Id))

		// The owner's late write must lose: no second status flip and
		// no second refund, even though 4 is still below the total.
		_, err = f.booking.CancelBooking(ctx, userId, false, booked.Id)
		assert.ErrorIs(t, err, ErrNotCancellable)
		assert.Equal(t, 3, f.remaining(t, purchase.Id))
		assert.Equal(t, 0, f.seats(t, schedule.Id))
	})

	t.Run("concurrent cancellations refund a single credit", func(t *testing.T) {
		f := newBookingFixture(t, newTestDB(t))
		userId := uuid.New()
		purchase := f.seedPurchase(t, userId, 5, 3)
		schedule := f.seedSchedule(t, 24*time.Hour, 10)

		booked, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.booking.CancelBooking(ctx, userId, false, booked.Id)
			}(i)
		}
		wg.Wait()

		var successes, rejected int
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case err == ErrNotCancellable:
				rejected++
			default:
				t.Fatalf("unexpected outcome: %v", err)
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, rejected)
		assert.Equal(t, 3, f.remaining(t, purchase.Id))
		assert.Equal(t, 0, f.seats(t, schedule.Id))
	})
}

func TestMarkAttendance(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t, newTestDB(t))
	userId := uuid.New()
	f.seedPurchase(t, userId, 5, 5)
	schedule := f.seedSchedule(t, 24*time.Hour, 10)

	booked, err := f.booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
	require.NoError(t, err)

	marked, err := f.booking.MarkAttendance(ctx, booked.Id, &dto.AttendanceRequest{Status: "attended"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusAttended), marked.Status)

	// Terminal states take no further transitions.
	_, err = f.booking.MarkAttendance(ctx, booked.Id, &dto.AttendanceRequest{Status: "no_show"})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	_, err = f.booking.CancelBooking(ctx, userId, false, booked.Id)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

// failingConsume wraps a real credit service but refuses every consume,
// standing in for a store failure between booking creation and the
// ledger update.
type failingConsume struct {
	ICreditService
}

func (f failingConsume) Consume(ctx context.Context, purchase *entity.Purchase) error {
	return contract.ErrStaleState
}

func TestBookClassCompensatesFailedConsume(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	nop := logger.NewNopLogger()
	credit := NewCreditService(factory, nop)
	booking := NewBookingService(
		factory,
		failingConsume{credit},
		NewCompensator(factory, nop),
		nil,
		nil,
		2*time.Hour,
		nop,
	)

	f := &bookingFixture{factory: factory, credit: credit, booking: booking}
	userId := uuid.New()
	purchase := f.seedPurchase(t, userId, 5, 5)
	schedule := f.seedSchedule(t, 24*time.Hour, 10)

	_, err := booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
	assert.ErrorIs(t, err, ErrBookingFailed)

	// No partial state survives: no booking row, untouched counters.
	count, err := factory.NewUnitOfWork(ctx).BookingRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, 5, f.remaining(t, purchase.Id))
	assert.Equal(t, 0, f.seats(t, schedule.Id))
}

// drainedOnFirstConsume fails the first consume the way a purchase
// exhausted or expired between the pick and the decrement would, then
// behaves normally.
type drainedOnFirstConsume struct {
	ICreditService
	calls int
}

func (d *drainedOnFirstConsume) Consume(ctx context.Context, purchase *entity.Purchase) error {
	d.calls++
	if d.calls == 1 {
		return contract.ErrInsufficientCredit
	}
	return d.ICreditService.Consume(ctx, purchase)
}

func TestBookClassRepicksDrainedPurchase(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	nop := logger.NewNopLogger()
	credit := NewCreditService(factory, nop)
	flaky := &drainedOnFirstConsume{ICreditService: credit}
	booking := NewBookingService(
		factory,
		flaky,
		NewCompensator(factory, nop),
		nil,
		nil,
		2*time.Hour,
		nop,
	)

	f := &bookingFixture{factory: factory, credit: credit, booking: booking}
	userId := uuid.New()
	purchase := f.seedPurchase(t, userId, 5, 5)
	schedule := f.seedSchedule(t, 24*time.Hour, 10)

	// The first chosen purchase turns out drained; a second pick must
	// keep the booking alive instead of reporting no credit.
	booked, err := booking.BookClass(ctx, userId, &dto.BookClassRequest{ScheduleId: schedule.Id})
	require.NoError(t, err)
	assert.Equal(t, 2, flaky.calls)
	assert.Equal(t, 4, f.remaining(t, purchase.Id))
	assert.Equal(t, 1, f.seats(t, schedule.Id))
	assert.Equal(t, string(entity.BookingStatusConfirmed), booked.Status)
}
