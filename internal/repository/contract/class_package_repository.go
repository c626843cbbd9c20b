package contract

import (
	"context"

	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/repository/specification"
)

type ClassPackageRepository interface {
	Create(ctx context.Context, pkg *entity.ClassPackage) error
	Update(ctx context.Context, pkg *entity.ClassPackage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClassPackage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassPackage, error)
}
