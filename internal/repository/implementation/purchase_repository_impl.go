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

type PurchaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PurchaseMapper
}

func NewPurchaseRepository(db *gorm.DB) contract.PurchaseRepository {
	return &PurchaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewPurchaseMapper(),
	}
}

func (r *PurchaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PurchaseRepositoryImpl) Create(ctx context.Context, purchase *entity.Purchase) error {
	m := r.mapper.ToModel(purchase)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*purchase = *r.mapper.ToEntity(m)
	return nil
}

func (r *PurchaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Purchase, error) {
	var m model.Purchase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PurchaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Purchase, error) {
	var models []*model.Purchase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Purchase, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PurchaseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Purchase{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ConsumeCredit is the only write path that decrements a purchase's
// credit counter. The expected-remaining guard lives in the WHERE
// clause so the check and the decrement are one atomic statement; a
// missed update is classified by re-reading the row.
func (r *PurchaseRepositoryImpl) ConsumeCredit(ctx context.Context, id uuid.UUID, expectedRemaining int) error {
	res := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ? AND classes_remaining = ? AND classes_remaining > 0", id, expectedRemaining).
		Update("classes_remaining", gorm.Expr("classes_remaining - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var m model.Purchase
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.ErrNotFound
		}
		return err
	}
	if m.ClassesRemaining <= 0 {
		return contract.ErrInsufficientCredit
	}
	return contract.ErrStaleState
}

// RefundCredit restores one credit unit. The upper clamp against
// total_classes is part of the WHERE clause, so a double refund can
// never push the counter past the invariant.
func (r *PurchaseRepositoryImpl) RefundCredit(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ? AND classes_remaining < total_classes", id).
		Update("classes_remaining", gorm.Expr("classes_remaining + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var m model.Purchase
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.ErrNotFound
		}
		return err
	}
	return contract.ErrCreditClamped
}
