package controller

import (
	"time"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/entity"
	"talasofilia-pilates-be/internal/pkg/serverutils"
	"talasofilia-pilates-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPurchaseController interface {
	RegisterRoutes(r fiber.Router)
	ListPackages(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
}

type purchaseController struct {
	creditService  service.ICreditService
	packageService service.IPackageService
}

func NewPurchaseController(creditService service.ICreditService, packageService service.IPackageService) IPurchaseController {
	return &purchaseController{
		creditService:  creditService,
		packageService: packageService,
	}
}

func (c *purchaseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/purchase/v1")
	h.Get("packages", c.ListPackages)
	h.Get("", serverutils.JwtMiddleware, c.ListMine)
}

func (c *purchaseController) ListPackages(ctx *fiber.Ctx) error {
	res, err := c.packageService.ListActive(ctx.Context())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list packages", res))
}

func (c *purchaseController) ListMine(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	purchases, err := c.creditService.ListPurchases(ctx.Context(), userId)
	if err != nil {
		return httpError(err)
	}

	now := time.Now()
	res := make([]*dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		res = append(res, toPurchaseResponse(p, now))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list purchases", res))
}

func toPurchaseResponse(p *entity.Purchase, now time.Time) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		Id:               p.Id,
		PackageName:      p.PackageName,
		TotalClasses:     p.TotalClasses,
		ClassesRemaining: p.ClassesRemaining,
		AmountPaid:       p.AmountPaid,
		Currency:         p.Currency,
		PaymentProvider:  string(p.PaymentProvider),
		PaymentStatus:    string(p.PaymentStatus),
		PurchaseDate:     p.PurchaseDate,
		ExpiryDate:       p.ExpiryDate,
		IsUsable:         p.Usable(now),
	}
}
