package unitofwork

import (
	"context"

	"talasofilia-pilates-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ClassPackageRepository() contract.ClassPackageRepository
	PurchaseRepository() contract.PurchaseRepository
	ScheduleRepository() contract.ScheduleRepository
	BookingRepository() contract.BookingRepository
}
