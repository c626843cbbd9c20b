package mapper

import (
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/model"
)

type ScheduleMapper struct{}

func NewScheduleMapper() *ScheduleMapper {
	return &ScheduleMapper{}
}

func (m *ScheduleMapper) ToEntity(s *model.ClassSchedule) *entity.ClassSchedule {
	if s == nil {
		return nil
	}
	return &entity.ClassSchedule{
		Id:              s.Id,
		ClassName:       s.ClassName,
		Instructor:      s.Instructor,
		StartsAt:        s.StartsAt,
		EndsAt:          s.EndsAt,
		MaxCapacity:     s.MaxCapacity,
		CurrentBookings: s.CurrentBookings,
		IsCancelled:     s.IsCancelled,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *ScheduleMapper) ToModel(s *entity.ClassSchedule) *model.ClassSchedule {
	if s == nil {
		return nil
	}
	return &model.ClassSchedule{
		Id:              s.Id,
		ClassName:       s.ClassName,
		Instructor:      s.Instructor,
		StartsAt:        s.StartsAt,
		EndsAt:          s.EndsAt,
		MaxCapacity:     s.MaxCapacity,
		CurrentBookings: s.CurrentBookings,
		IsCancelled:     s.IsCancelled,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
