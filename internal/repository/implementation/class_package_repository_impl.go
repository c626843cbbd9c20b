package implementation

import (
	"context"
	"errors"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/mapper"
	"talasofilia-pilates-be/internal/model"
	"talasofilia-pilates-be/internal/repository/contract"
	"talasofilia-pilates-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ClassPackageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PackageMapper
}

func NewClassPackageRepository(db *gorm.DB) contract.ClassPackageRepository {
	return &ClassPackageRepositoryImpl{
		db:     db,
		mapper: mapper.NewPackageMapper(),
	}
}

func (r *ClassPackageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ClassPackageRepositoryImpl) Create(ctx context.Context, pkg *entity.ClassPackage) error {
	m := r.mapper.ToModel(pkg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*pkg = *r.mapper.ToEntity(m)
	return nil
}

func (r *ClassPackageRepositoryImpl) Update(ctx context.Context, pkg *entity.ClassPackage) error {
	m := r.mapper.ToModel(pkg)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*pkg = *r.mapper.ToEntity(m)
	return nil
}

func (r *ClassPackageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClassPackage, error) {
	var m model.ClassPackage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ClassPackageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassPackage, error) {
	var models []*model.ClassPackage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ClassPackage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
