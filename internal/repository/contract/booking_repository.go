package contract

import (
	"context"
	"time"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.ClassBooking) error
	Update(ctx context.Context, booking *entity.ClassBooking) error
	// TransitionStatus moves a booking from one status to another as a
	// single conditional UPDATE guarded on the current status, so two
	// racing transitions cannot both succeed. Returns ErrStaleState
	// when the booking is no longer in `from`, ErrNotFound when the
	// row does not exist. cancelledAt is written when non-nil.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, cancelledAt *time.Time) error
	// Delete hard-deletes a booking row. Only the compensation path
	// uses it; normal lifecycle never removes bookings.
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClassBooking, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassBooking, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
