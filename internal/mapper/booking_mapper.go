package mapper

import (
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/model"
)

type BookingMapper struct{}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{}
}

func (m *BookingMapper) ToEntity(b *model.ClassBooking) *entity.ClassBooking {
	if b == nil {
		return nil
	}
	return &entity.ClassBooking{
		Id:          b.Id,
		UserId:      b.UserId,
		ScheduleId:  b.ScheduleId,
		PurchaseId:  b.PurchaseId,
		Status:      entity.BookingStatus(b.Status),
		BookedAt:    b.BookedAt,
		CancelledAt: b.CancelledAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (m *BookingMapper) ToModel(b *entity.ClassBooking) *model.ClassBooking {
	if b == nil {
		return nil
	}
	return &model.ClassBooking{
		Id:          b.Id,
		UserId:      b.UserId,
		ScheduleId:  b.ScheduleId,
		PurchaseId:  b.PurchaseId,
		Status:      string(b.Status),
		BookedAt:    b.BookedAt,
		CancelledAt: b.CancelledAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
