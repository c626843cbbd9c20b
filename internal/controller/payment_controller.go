package controller

import (
	"context"
	"errors"
	"time"

	"talasofilia-pilates-be/internal/dto"
	"talasofilia-pilates-be/internal/pkg/serverutils"
	"talasofilia-pilates-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	StripeWebhook(ctx *fiber.Ctx) error
	MercadoPagoWebhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service        service.IPaymentService
	webhookTimeout time.Duration
}

func NewPaymentController(paymentService service.IPaymentService, webhookTimeout time.Duration) IPaymentController {
	return &paymentController{
		service:        paymentService,
		webhookTimeout: webhookTimeout,
	}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment/v1")
	// Webhooks authenticate by signature, not by token.
	h.Post("webhook/stripe", c.StripeWebhook)
	h.Post("webhook/mercado-pago", c.MercadoPagoWebhook)
}

// StripeWebhook processes a signed Stripe delivery. Providers time out
// slow endpoints and retry, so processing runs under a deadline shorter
// than theirs; a replayed delivery is answered 200 without a second
// grant.
func (c *paymentController) StripeWebhook(ctx *fiber.Ctx) error {
	wctx, cancel := context.WithTimeout(ctx.Context(), c.webhookTimeout)
	defer cancel()

	err := c.service.HandleStripeEvent(wctx, ctx.Body(), ctx.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid signature")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Webhook processing failed")
	}

	return ctx.JSON(serverutils.SuccessResponse("received", struct{}{}))
}

func (c *paymentController) MercadoPagoWebhook(ctx *fiber.Ctx) error {
	wctx, cancel := context.WithTimeout(ctx.Context(), c.webhookTimeout)
	defer cancel()

	var req dto.MercadoPagoWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed notification")
	}

	err := c.service.HandleMercadoPagoNotification(wctx, &req, ctx.Get("x-signature"), ctx.Get("x-request-id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid signature")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Webhook processing failed")
	}

	return ctx.JSON(serverutils.SuccessResponse("received", struct{}{}))
}
