package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SoftEngMuhammadAli/shop-nexus/internal/api/validation"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/auth"
	"github.com/SoftEngMuhammadAli/shop-nexus/internal/domain"
	apperrors "github.com/SoftEngMuhammadAli/shop-nexus/pkg/util"
)

// respond writes the success body {success: true, data}.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, v *validation.Validator, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return v.Validate(req)
}

// caller returns the identity resolved by the session verifier.
func caller(c *fiber.Ctx) (*domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized(auth.MsgNoToken)
	}
	return identity, nil
}
