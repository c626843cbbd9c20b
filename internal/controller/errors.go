package controller

import (
	"errors"

	"talasofilia-pilates-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// httpError maps business errors onto HTTP statuses. Anything
// unrecognized falls through as-is and surfaces as a 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrPackageNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrClassFull),
		errors.Is(err, service.ErrClassPast),
		errors.Is(err, service.ErrClassCancelled),
		errors.Is(err, service.ErrAlreadyBooked),
		errors.Is(err, service.ErrNotCancellable),
		errors.Is(err, service.ErrAlreadyFinalized),
		errors.Is(err, service.ErrDuplicateGrant):
		return fiber.NewError(fiber.StatusConflict, err.Error())

	case errors.Is(err, service.ErrNoCreditAvailable):
		return fiber.NewError(fiber.StatusPaymentRequired, err.Error())

	case errors.Is(err, service.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvalidSignature):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrBookingFailed):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return err
}
