package mapper

import (
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/model"
)

type PackageMapper struct{}

func NewPackageMapper() *PackageMapper {
	return &PackageMapper{}
}

func (m *PackageMapper) ToEntity(p *model.ClassPackage) *entity.ClassPackage {
	if p == nil {
		return nil
	}
	return &entity.ClassPackage{
		Id:              p.Id,
		Name:            p.Name,
		Description:     p.Description,
		NumberOfClasses: p.NumberOfClasses,
		Price:           p.Price,
		Currency:        p.Currency,
		ValidityDays:    p.ValidityDays,
		IsActive:        p.IsActive,
		SortOrder:       p.SortOrder,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (m *PackageMapper) ToModel(p *entity.ClassPackage) *model.ClassPackage {
	if p == nil {
		return nil
	}
	return &model.ClassPackage{
		Id:              p.Id,
		Name:            p.Name,
		Description:     p.Description,
		NumberOfClasses: p.NumberOfClasses,
		Price:           p.Price,
		Currency:        p.Currency,
		ValidityDays:    p.ValidityDays,
		IsActive:        p.IsActive,
		SortOrder:       p.SortOrder,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
