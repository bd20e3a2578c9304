package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio_backend/pkg/utils/jwt"
)

// AdminAuth requires a valid admin bearer token. A nil issuer means admin
// login is not configured and the route stays public.
func AdminAuth(issuer *jwt.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if issuer == nil {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}

		claims, err := issuer.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("admin", claims)
		return c.Next()
	}
}
