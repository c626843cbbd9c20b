package mapper

import (
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/model"

	"gorm.io/datatypes"
)

type PurchaseMapper struct{}

func NewPurchaseMapper() *PurchaseMapper {
	return &PurchaseMapper{}
}

func (m *PurchaseMapper) ToEntity(p *model.Purchase) *entity.Purchase {
	if p == nil {
		return nil
	}
	return &entity.Purchase{
		Id:               p.Id,
		UserId:           p.UserId,
		PackageId:        p.PackageId,
		PackageName:      p.PackageName,
		TotalClasses:     p.TotalClasses,
		ClassesRemaining: p.ClassesRemaining,
		AmountPaid:       p.AmountPaid,
		Currency:         p.Currency,
		PaymentProvider:  entity.PaymentProvider(p.PaymentProvider),
		PaymentStatus:    entity.PaymentStatus(p.PaymentStatus),
		PaymentRef:       p.PaymentRef,
		ProviderPayload:  []byte(p.ProviderPayload),
		PurchaseDate:     p.PurchaseDate,
		ExpiryDate:       p.ExpiryDate,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (m *PurchaseMapper) ToModel(p *entity.Purchase) *model.Purchase {
	if p == nil {
		return nil
	}
	return &model.Purchase{
		Id:               p.Id,
		UserId:           p.UserId,
		PackageId:        p.PackageId,
		PackageName:      p.PackageName,
		TotalClasses:     p.TotalClasses,
		ClassesRemaining: p.ClassesRemaining,
		AmountPaid:       p.AmountPaid,
		Currency:         p.Currency,
		PaymentProvider:  string(p.PaymentProvider),
		PaymentStatus:    string(p.PaymentStatus),
		PaymentRef:       p.PaymentRef,
		ProviderPayload:  datatypes.JSON(p.ProviderPayload),
		PurchaseDate:     p.PurchaseDate,
		ExpiryDate:       p.ExpiryDate,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
