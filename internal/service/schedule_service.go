package service

import (
	"context"
	"time"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/pkg/logger"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const upcomingCacheKey = "schedules:upcoming"

type IScheduleService interface {
	// ListUpcoming returns upcoming non-cancelled schedules. The list
	// is cached briefly; seat counts may lag by the cache TTL.
	ListUpcoming(ctx context.Context) ([]*dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, id uuid.UUID) (*dto.ScheduleResponse, error)
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, id uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	// CancelSchedule marks the schedule cancelled and cancels every
	// confirmed booking on it with credit back.
	CancelSchedule(ctx context.Context, adminId uuid.UUID, id uuid.UUID) error
}

type scheduleService struct {
	uowFactory     unitofwork.RepositoryFactory
	bookingService IBookingService
	cache          *gocache.Cache
	logger         logger.ILogger
}

func NewScheduleService(
	uowFactory unitofwork.RepositoryFactory,
	bookingService IBookingService,
	cache *gocache.Cache,
	log logger.ILogger,
) IScheduleService {
	return &scheduleService{
		uowFactory:     uowFactory,
		bookingService: bookingService,
		cache:          cache,
		logger:         log,
	}
}

func (s *scheduleService) ListUpcoming(ctx context.Context) ([]*dto.ScheduleResponse, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(upcomingCacheKey); found {
			return cached.([]*dto.ScheduleResponse), nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedules, err := uow.ScheduleRepository().FindAll(ctx,
		specification.UpcomingSchedule{Now: time.Now()},
		specification.OrderBy{Field: "starts_at"},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		responses = append(responses, toScheduleResponse(sc))
	}

	if s.cache != nil {
		s.cache.Set(upcomingCacheKey, responses, 30*time.Second)
	}
	return responses, nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*dto.ScheduleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedule, err := uow.ScheduleRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return toScheduleResponse(schedule), nil
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedule := entity.ClassSchedule{
		Id:          uuid.New(),
		ClassName:   req.ClassName,
		Instructor:  req.Instructor,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		MaxCapacity: req.MaxCapacity,
	}
	if err := uow.ScheduleRepository().Create(ctx, &schedule); err != nil {
		return nil, err
	}
	s.invalidate()
	return toScheduleResponse(&schedule), nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedule, err := uow.ScheduleRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	if req.ClassName != nil {
		schedule.ClassName = *req.ClassName
	}
	if req.Instructor != nil {
		schedule.Instructor = *req.Instructor
	}
	if req.StartsAt != nil {
		schedule.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		schedule.EndsAt = *req.EndsAt
	}
	// Capacity can shrink below current_bookings; existing bookings
	// stay valid and AvailableSeats clamps to 0.
	if req.MaxCapacity != nil {
		schedule.MaxCapacity = *req.MaxCapacity
	}

	if err := uow.ScheduleRepository().Update(ctx, schedule); err != nil {
		return nil, err
	}
	s.invalidate()
	return toScheduleResponse(schedule), nil
}

func (s *scheduleService) CancelSchedule(ctx context.Context, adminId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	schedule, err := uow.ScheduleRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if schedule == nil {
		return ErrScheduleNotFound
	}
	if schedule.IsCancelled {
		return nil
	}

	if err := uow.ScheduleRepository().MarkCancelled(ctx, id); err != nil {
		return err
	}
	s.invalidate()

	bookings, err := uow.BookingRepository().FindAll(ctx,
		specification.BySchedule{ScheduleID: id},
		specification.ByStatus{Status: string(entity.BookingStatusConfirmed)},
	)
	if err != nil {
		return err
	}

	for _, b := range bookings {
		if _, err := s.bookingService.CancelBooking(ctx, adminId, true, b.Id); err != nil {
			// Keep going; a booking stuck in confirmed on a cancelled
			// schedule is visible to reconciliation.
			s.logger.Error("ScheduleService", "Failed to cancel booking on cancelled schedule", map[string]interface{}{
				"schedule_id": id,
				"booking_id":  b.Id,
				"error":       err.Error(),
			})
		}
	}

	s.logger.Info("ScheduleService", "Schedule cancelled", map[string]interface{}{
		"schedule_id": id,
		"bookings":    len(bookings),
	})
	return nil
}

func (s *scheduleService) invalidate() {
	if s.cache != nil {
		s.cache.Delete(upcomingCacheKey)
	}
}

func toScheduleResponse(sc *entity.ClassSchedule) *dto.ScheduleResponse {
	return &dto.ScheduleResponse{
		Id:             sc.Id,
		ClassName:      sc.ClassName,
		Instructor:     sc.Instructor,
		StartsAt:       sc.StartsAt,
		EndsAt:         sc.EndsAt,
		MaxCapacity:    sc.MaxCapacity,
		AvailableSeats: sc.AvailableSeats(),
		IsCancelled:    sc.IsCancelled,
	}
}
