package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserId reads the authenticated user id the JWT middleware
// stored on the request. A token that carries no usable user_id claim
// is rejected with 401 rather than trusted.
func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Missing user identity")
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user identity")
	}
	return userId, nil
}
