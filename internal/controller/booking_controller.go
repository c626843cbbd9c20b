package controller

import (
	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/pkg/serverutils"
	"talasofilia-pilates-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookingController interface {
	RegisterRoutes(r fiber.Router)
	Book(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	MarkAttendance(ctx *fiber.Ctx) error
	ListBySchedule(ctx *fiber.Ctx) error
}

type bookingController struct {
	bookingService service.IBookingService
}

func NewBookingController(bookingService service.IBookingService) IBookingController {
	return &bookingController{
		bookingService: bookingService,
	}
}

func (c *bookingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/booking/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Book)
	h.Get("", c.List)
	h.Delete(":id", c.Cancel)
	h.Put(":id/attendance", serverutils.AdminMiddleware, c.MarkAttendance)
	h.Get("schedule/:id", serverutils.AdminMiddleware, c.ListBySchedule)
}

func (c *bookingController) Book(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.BookClassRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookingService.BookClass(ctx.Context(), userId, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success book class", res))
}

func (c *bookingController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.bookingService.ListBookings(ctx.Context(), userId)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list bookings", res))
}

func (c *bookingController) Cancel(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	role, _ := ctx.Locals("role").(string)

	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid booking id")
	}

	res, err := c.bookingService.CancelBooking(ctx.Context(), userId, role == "admin", id)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cancel booking", res))
}

func (c *bookingController) ListBySchedule(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid schedule id")
	}

	res, err := c.bookingService.ListScheduleBookings(ctx.Context(), id)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list schedule bookings", res))
}

func (c *bookingController) MarkAttendance(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid booking id")
	}

	var req dto.AttendanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookingService.MarkAttendance(ctx.Context(), id, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update attendance", res))
}
