package handlers

import (
	"strconv"
	"strings"

	"loyalty/internal/middleware"
	"loyalty/internal/models"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyHeader lets clients retry a write without repeating its effect.
const IdempotencyHeader = "Idempotency-Key"

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// idempotencyKey prefers the header over a body field.
func idempotencyKey(c *fiber.Ctx, fromBody string) string {
	if key := strings.TrimSpace(c.Get(IdempotencyHeader)); key != "" {
		return key
	}
	return strings.TrimSpace(fromBody)
}
