package service

import (
	"context"

	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Compensator undoes partial effects of a failed booking attempt. The
// booking flow creates the booking row first, then moves the credit
// and seat counters; when a later step fails the earlier ones must be
// rolled back individually because each counter update is its own
// atomic statement.
type Compensator struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewCompensator(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *Compensator {
	return &Compensator{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// VoidBooking removes a booking row created by an attempt that could
// not complete. Failures are logged, not returned: the caller is
// already on an error path and the orphaned row is visible to
// reconciliation.
func (c *Compensator) VoidBooking(ctx context.Context, bookingId uuid.UUID) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.BookingRepository().Delete(ctx, bookingId); err != nil {
		c.logger.Error("Compensator", "Failed to void booking", map[string]interface{}{
			"booking_id": bookingId,
			"error":      err.Error(),
		})
		return
	}
	c.logger.Info("Compensator", "Booking voided", map[string]interface{}{
		"booking_id": bookingId,
	})
}
