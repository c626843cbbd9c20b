package implementation

import (
	"context"
	"errors"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/mapper"
	"talasofilia-pilates-be/internal/model"
	"talasofilia-pilates-be/internal/repository/contract"
	"talasofilia-pilates-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ScheduleMapper
}

func NewScheduleRepository(db *gorm.DB) contract.ScheduleRepository {
	return &ScheduleRepositoryImpl{
		db:     db,
		mapper: mapper.NewScheduleMapper(),
	}
}

func (r *ScheduleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, schedule *entity.ClassSchedule) error {
	m := r.mapper.ToModel(schedule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*schedule = *r.mapper.ToEntity(m)
	return nil
}

func (r *ScheduleRepositoryImpl) Update(ctx context.Context, schedule *entity.ClassSchedule) error {
	m := r.mapper.ToModel(schedule)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*schedule = *r.mapper.ToEntity(m)
	return nil
}

func (r *ScheduleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClassSchedule, error) {
	var m model.ClassSchedule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ScheduleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassSchedule, error) {
	var models []*model.ClassSchedule
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ClassSchedule, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ScheduleRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ClassSchedule{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReserveSeat folds the capacity check into the UPDATE itself. Any
// availability check done earlier against a stale read is advisory; the
// WHERE clause here is what actually prevents overbooking.
func (r *ScheduleRepositoryImpl) ReserveSeat(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.ClassSchedule{}).
		Where("id = ? AND is_cancelled = ? AND current_bookings < max_capacity", id, false).
		Update("current_bookings", gorm.Expr("current_bookings + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var m model.ClassSchedule
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.ErrNotFound
		}
		return err
	}
	if m.IsCancelled {
		return contract.ErrScheduleUnavailable
	}
	return contract.ErrCapacityFull
}

// ReleaseSeat decrements the seat counter; the current_bookings > 0
// condition is the clamp, so drifted counters can never go negative.
func (r *ScheduleRepositoryImpl) ReleaseSeat(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.ClassSchedule{}).
		Where("id = ? AND current_bookings > 0", id).
		Update("current_bookings", gorm.Expr("current_bookings - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var m model.ClassSchedule
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.ErrNotFound
		}
		return err
	}
	return contract.ErrSeatCountClamped
}

func (r *ScheduleRepositoryImpl) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.ClassSchedule{}).
		Where("id = ?", id).
		Update("is_cancelled", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}
