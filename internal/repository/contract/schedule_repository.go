package contract

import (
	"context"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.ClassSchedule) error
	Update(ctx context.Context, schedule *entity.ClassSchedule) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClassSchedule, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassSchedule, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ReserveSeat performs the capacity check and the increment of
	// current_bookings as one conditional UPDATE. Returns
	// ErrCapacityFull when the schedule is at max_capacity,
	// ErrScheduleUnavailable when it is cancelled, ErrNotFound when it
	// does not exist.
	ReserveSeat(ctx context.Context, id uuid.UUID) error

	// ReleaseSeat decrements current_bookings, clamped at 0. A clamped
	// release returns ErrSeatCountClamped so callers can log the drift.
	ReleaseSeat(ctx context.Context, id uuid.UUID) error

	// MarkCancelled flips is_cancelled on the schedule.
	MarkCancelled(ctx context.Context, id uuid.UUID) error
}
