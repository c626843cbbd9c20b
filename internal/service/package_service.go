package service

import (
	"context"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/repository/specification"
	"talasofilia-pilates-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IPackageService interface {
	ListActive(ctx context.Context) ([]*dto.PackageResponse, error)
	CreatePackage(ctx context.Context, req *dto.CreatePackageRequest) (*dto.PackageResponse, error)
}

type packageService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPackageService(uowFactory unitofwork.RepositoryFactory) IPackageService {
	return &packageService{
		uowFactory: uowFactory,
	}
}

func (s *packageService) ListActive(ctx context.Context) ([]*dto.PackageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	packages, err := uow.ClassPackageRepository().FindAll(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PackageResponse, 0, len(packages))
	for _, p := range packages {
		responses = append(responses, toPackageResponse(p))
	}
	return responses, nil
}

func (s *packageService) CreatePackage(ctx context.Context, req *dto.CreatePackageRequest) (*dto.PackageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pkg := entity.ClassPackage{
		Id:              uuid.New(),
		Name:            req.Name,
		Description:     req.Description,
		NumberOfClasses: req.NumberOfClasses,
		Price:           req.Price,
		Currency:        req.Currency,
		ValidityDays:    req.ValidityDays,
		IsActive:        true,
		SortOrder:       req.SortOrder,
	}
	if err := uow.ClassPackageRepository().Create(ctx, &pkg); err != nil {
		return nil, err
	}
	return toPackageResponse(&pkg), nil
}

func toPackageResponse(p *entity.ClassPackage) *dto.PackageResponse {
	return &dto.PackageResponse{
		Id:              p.Id,
		Name:            p.Name,
		Description:     p.Description,
		NumberOfClasses: p.NumberOfClasses,
		Price:           p.Price,
		Currency:        p.Currency,
		ValidityDays:    p.ValidityDays,
	}
}
