package controller

import (
	"errors"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/pkg/serverutils"
	"talasofilia-pilates-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GrantCashPurchase(ctx *fiber.Ctx) error
	CreatePackage(ctx *fiber.Ctx) error
}

type adminController struct {
	paymentService service.IPaymentService
	packageService service.IPackageService
}

func NewAdminController(paymentService service.IPaymentService, packageService service.IPackageService) IAdminController {
	return &adminController{
		paymentService: paymentService,
		packageService: packageService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1", serverutils.JwtMiddleware, serverutils.AdminMiddleware)
	h.Post("purchases/cash-grant", c.GrantCashPurchase)
	h.Post("packages", c.CreatePackage)
}

func (c *adminController) GrantCashPurchase(ctx *fiber.Ctx) error {
	var req dto.CashGrantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paymentService.GrantCashPurchase(ctx.Context(), &req)
	if err != nil {
		// A repeated reference means the grant already happened; hand
		// back the existing purchase instead of failing the retry.
		if errors.Is(err, service.ErrDuplicateGrant) {
			return ctx.JSON(serverutils.SuccessResponse("Purchase already granted", res))
		}
		return httpError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success grant purchase", res))
}

func (c *adminController) CreatePackage(ctx *fiber.Ctx) error {
	var req dto.CreatePackageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.packageService.CreatePackage(ctx.Context(), &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create package", res))
}
