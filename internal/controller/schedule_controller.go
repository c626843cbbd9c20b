package controller

import (
	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/pkg/serverutils"
	"talasofilia-pilates-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IScheduleController interface {
	RegisterRoutes(r fiber.Router)
	ListUpcoming(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type scheduleController struct {
	scheduleService service.IScheduleService
}

func NewScheduleController(scheduleService service.IScheduleService) IScheduleController {
	return &scheduleController{
		scheduleService: scheduleService,
	}
}

func (c *scheduleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/schedule/v1")
	// Browsing the schedule needs no login.
	h.Get("", c.ListUpcoming)
	h.Get(":id", c.Show)

	a := h.Group("", serverutils.JwtMiddleware, serverutils.AdminMiddleware)
	a.Post("", c.Create)
	a.Put(":id", c.Update)
	a.Delete(":id", c.Cancel)
}

func (c *scheduleController) ListUpcoming(ctx *fiber.Ctx) error {
	res, err := c.scheduleService.ListUpcoming(ctx.Context())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list schedules", res))
}

func (c *scheduleController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid schedule id")
	}

	res, err := c.scheduleService.GetSchedule(ctx.Context(), id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show schedule", res))
}

func (c *scheduleController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.scheduleService.CreateSchedule(ctx.Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create schedule", res))
}

func (c *scheduleController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid schedule id")
	}

	var req dto.UpdateScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.scheduleService.UpdateSchedule(ctx.Context(), id, &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update schedule", res))
}

func (c *scheduleController) Cancel(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid schedule id")
	}

	adminId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	if err := c.scheduleService.CancelSchedule(ctx.Context(), adminId, id); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success cancel schedule", fiber.Map{"id": id}))
}
