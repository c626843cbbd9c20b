package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/repository/contract"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"
	"talasofilia-pilates-be/pkg/events"
	pktNats "talasofilia-pilates-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IBookingService interface {
	BookClass(ctx context.Context, userId uuid.UUID, req *dto.BookClassRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, userId uuid.UUID, isAdmin bool, bookingId uuid.UUID) (*dto.BookingResponse, error)
	MarkAttendance(ctx context.Context, bookingId uuid.UUID, req *dto.AttendanceRequest) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, userId uuid.UUID) ([]*dto.BookingResponse, error)
	ListScheduleBookings(ctx context.Context, scheduleId uuid.UUID) ([]*dto.BookingResponse, error)
}

type bookingService struct {
	uowFactory         unitofwork.RepositoryFactory
	creditService      ICreditService
	compensator        *Compensator
	publisherService   IPublisherService
	eventPublisher     *pktNats.Publisher
	cancellationWindow time.Duration
	logger             logger.ILogger
}

func NewBookingService(
	uowFactory unitofwork.RepositoryFactory,
	creditService ICreditService,
	compensator *Compensator,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	cancellationWindow time.Duration,
	log logger.ILogger,
) IBookingService {
	return &bookingService{
		uowFactory:         uowFactory,
		creditService:      creditService,
		compensator:        compensator,
		publisherService:   publisherService,
		eventPublisher:     eventPublisher,
		cancellationWindow: cancellationWindow,
		logger:             log,
	}
}

// BookClass runs the booking pipeline: eligibility checks, pick a
// purchase, create the booking row, consume one credit, reserve one
// seat. The credit and seat steps are independent atomic statements;
// any failure after the row exists triggers compensation of everything
// done so far, so a failed booking never leaks a credit or a seat.
func (s *bookingService) BookClass(ctx context.Context, userId uuid.UUID, req *dto.BookClassRequest) (*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	schedule, err := uow.ScheduleRepository().FindOne(ctx, specification.ByID{ID: req.ScheduleId})
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	if schedule.IsCancelled {
		return nil, ErrClassCancelled
	}
	if !now.Before(schedule.StartsAt) {
		return nil, ErrClassPast
	}
	if schedule.AvailableSeats() == 0 {
		return nil, ErrClassFull
	}

	existing, err := uow.BookingRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.BySchedule{ScheduleID: req.ScheduleId},
		specification.ByStatus{Status: string(entity.BookingStatusConfirmed)},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyBooked
	}

	// The chosen purchase can be drained between the pick and the
	// consume, e.g. by a parallel booking or an expiry. One more pick
	// keeps the booking alive when the user still has another usable
	// purchase; only a second exhaustion gives up.
	var booking entity.ClassBooking
	var purchase *entity.Purchase
	for attempt := 0; attempt < 2 && purchase == nil; attempt++ {
		candidate, err := s.creditService.FindConsumable(ctx, userId, now)
		if err != nil {
			return nil, err
		}

		booking = entity.ClassBooking{
			Id:         uuid.New(),
			UserId:     userId,
			ScheduleId: req.ScheduleId,
			PurchaseId: candidate.Id,
			Status:     entity.BookingStatusConfirmed,
			BookedAt:   now,
		}
		if err := uow.BookingRepository().Create(ctx, &booking); err != nil {
			// The partial unique index on (user_id, schedule_id)
			// catches two requests racing past the FindOne above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrAlreadyBooked
			}
			return nil, err
		}

		if err := s.creditService.Consume(ctx, candidate); err != nil {
			s.compensator.VoidBooking(ctx, booking.Id)
			if errors.Is(err, contract.ErrInsufficientCredit) {
				continue
			}
			s.logger.Error("BookingService", "Credit consume failed", map[string]interface{}{
				"booking_id": booking.Id,
				"error":      err.Error(),
			})
			return nil, ErrBookingFailed
		}
		purchase = candidate
	}
	if purchase == nil {
		return nil, ErrNoCreditAvailable
	}

	if err := uow.ScheduleRepository().ReserveSeat(ctx, req.ScheduleId); err != nil {
		if refundErr := s.creditService.Refund(ctx, purchase.Id); refundErr != nil {
			s.logger.Error("BookingService", "Refund during compensation failed", map[string]interface{}{
				"purchase_id": purchase.Id,
				"error":       refundErr.Error(),
			})
		}
		s.compensator.VoidBooking(ctx, booking.Id)
		switch {
		case errors.Is(err, contract.ErrCapacityFull):
			return nil, ErrClassFull
		case errors.Is(err, contract.ErrScheduleUnavailable):
			return nil, ErrClassCancelled
		case errors.Is(err, contract.ErrNotFound):
			return nil, ErrScheduleNotFound
		default:
			return nil, ErrBookingFailed
		}
	}

	s.logger.Info("BookingService", "Class booked", map[string]interface{}{
		"booking_id":  booking.Id,
		"user_id":     userId,
		"schedule_id": req.ScheduleId,
		"purchase_id": purchase.Id,
	})

	s.notify(ctx, dto.NotificationMessage{
		Kind:       dto.NotificationBookingConfirmed,
		UserId:     userId,
		BookingId:  booking.Id,
		ScheduleId: req.ScheduleId,
	})
	s.publishEvent(ctx, events.TopicBookingConfirmed, map[string]interface{}{
		"booking_id":  booking.Id,
		"user_id":     userId,
		"schedule_id": req.ScheduleId,
		"class_name":  schedule.ClassName,
	})

	return toBookingResponse(&booking), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userId uuid.UUID, isAdmin bool, bookingId uuid.UUID) (*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	booking, err := uow.BookingRepository().FindOne(ctx, specification.ByID{ID: bookingId})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !isAdmin && booking.UserId != userId {
		return nil, ErrForbidden
	}
	if booking.Status != entity.BookingStatusConfirmed {
		return nil, ErrNotCancellable
	}

	schedule, err := uow.ScheduleRepository().FindOne(ctx, specification.ByID{ID: booking.ScheduleId})
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	// Admins may cancel inside the window, e.g. when the studio
	// cancels a class.
	if !isAdmin && now.After(schedule.StartsAt.Add(-s.cancellationWindow)) {
		return nil, ErrNotCancellable
	}

	// The status flip is guarded on the row still being confirmed, so
	// two racing cancellations resolve to exactly one winner and the
	// credit comes back exactly once.
	err = uow.BookingRepository().TransitionStatus(ctx, booking.Id, entity.BookingStatusConfirmed, entity.BookingStatusCancelled, &now)
	switch {
	case errors.Is(err, contract.ErrStaleState):
		return nil, ErrNotCancellable
	case errors.Is(err, contract.ErrNotFound):
		return nil, ErrBookingNotFound
	case err != nil:
		return nil, err
	}
	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &now

	// Credit back and seat release are best effort after the state
	// flip: the cancellation itself must not fail because a counter
	// is already at its bound.
	if err := s.creditService.Refund(ctx, booking.PurchaseId); err != nil {
		s.logger.Error("BookingService", "Refund after cancellation failed", map[string]interface{}{
			"booking_id":  booking.Id,
			"purchase_id": booking.PurchaseId,
			"error":       err.Error(),
		})
	}
	if err := uow.ScheduleRepository().ReleaseSeat(ctx, booking.ScheduleId); err != nil {
		if errors.Is(err, contract.ErrSeatCountClamped) {
			s.logger.Warn("BookingService", "Seat release clamped at zero", map[string]interface{}{
				"schedule_id": booking.ScheduleId,
			})
		} else {
			s.logger.Error("BookingService", "Seat release failed", map[string]interface{}{
				"schedule_id": booking.ScheduleId,
				"error":       err.Error(),
			})
		}
	}

	s.logger.Info("BookingService", "Booking cancelled", map[string]interface{}{
		"booking_id": booking.Id,
		"user_id":    booking.UserId,
		"by_admin":   isAdmin && booking.UserId != userId,
	})

	s.notify(ctx, dto.NotificationMessage{
		Kind:       dto.NotificationBookingCancelled,
		UserId:     booking.UserId,
		BookingId:  booking.Id,
		ScheduleId: booking.ScheduleId,
	})
	s.publishEvent(ctx, events.TopicBookingCancelled, map[string]interface{}{
		"booking_id":  booking.Id,
		"user_id":     booking.UserId,
		"schedule_id": booking.ScheduleId,
	})

	return toBookingResponse(booking), nil
}

func (s *bookingService) MarkAttendance(ctx context.Context, bookingId uuid.UUID, req *dto.AttendanceRequest) (*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	booking, err := uow.BookingRepository().FindOne(ctx, specification.ByID{ID: bookingId})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status != entity.BookingStatusConfirmed {
		return nil, ErrAlreadyFinalized
	}

	// Same guard as cancellation: only a confirmed booking can be
	// finalized, and only once.
	err = uow.BookingRepository().TransitionStatus(ctx, bookingId, entity.BookingStatusConfirmed, entity.BookingStatus(req.Status), nil)
	switch {
	case errors.Is(err, contract.ErrStaleState):
		return nil, ErrAlreadyFinalized
	case errors.Is(err, contract.ErrNotFound):
		return nil, ErrBookingNotFound
	case err != nil:
		return nil, err
	}

	booking.Status = entity.BookingStatus(req.Status)
	return toBookingResponse(booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, userId uuid.UUID) ([]*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookings, err := uow.BookingRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "booked_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}
	return responses, nil
}

func (s *bookingService) ListScheduleBookings(ctx context.Context, scheduleId uuid.UUID) ([]*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	schedule, err := uow.ScheduleRepository().FindOne(ctx, specification.ByID{ID: scheduleId})
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	bookings, err := uow.BookingRepository().FindAll(ctx,
		specification.BySchedule{ScheduleID: scheduleId},
		specification.OrderBy{Field: "booked_at"},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, toBookingResponse(b))
	}
	return responses, nil
}

func (s *bookingService) notify(ctx context.Context, msg dto.NotificationMessage) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("BookingService", "Failed to publish notification", map[string]interface{}{
			"kind":  msg.Kind,
			"error": err.Error(),
		})
	}
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	// Auxiliary; the booking outcome never depends on the bus.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("BookingService", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func toBookingResponse(b *entity.ClassBooking) *dto.BookingResponse {
	return &dto.BookingResponse{
		Id:          b.Id,
		ScheduleId:  b.ScheduleId,
		PurchaseId:  b.PurchaseId,
		Status:      string(b.Status),
		BookedAt:    b.BookedAt,
		CancelledAt: b.CancelledAt,
	}
}
