package implementation

import (
	"context"
	"errors"
	"time"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/mapper"
	"talasofilia-pilates-be/internal/model"
	"talasofilia-pilates-be/internal/repository/contract"
	"talasofilia-pilates-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &BookingRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookingMapper(),
	}
}

func (r *BookingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *entity.ClassBooking) error {
	m := r.mapper.ToModel(booking)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*booking = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookingRepositoryImpl) Update(ctx context.Context, booking *entity.ClassBooking) error {
	m := r.mapper.ToModel(booking)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*booking = *r.mapper.ToEntity(m)
	return nil
}

// TransitionStatus keeps the current-status guard inside the WHERE
// clause. When two actors race to finalize the same booking, exactly
// one UPDATE matches; the loser is classified by re-reading the row.
func (r *BookingRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus, cancelledAt *time.Time) error {
	updates := map[string]interface{}{"status": string(to)}
	if cancelledAt != nil {
		updates["cancelled_at"] = cancelledAt
	}

	res := r.db.WithContext(ctx).
		Model(&model.ClassBooking{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var m model.ClassBooking
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.ErrNotFound
		}
		return err
	}
	return contract.ErrStaleState
}

func (r *BookingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ClassBooking{}, "id = ?", id).Error
}

func (r *BookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClassBooking, error) {
	var m model.ClassBooking
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassBooking, error) {
	var models []*model.ClassBooking
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ClassBooking, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BookingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ClassBooking{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
