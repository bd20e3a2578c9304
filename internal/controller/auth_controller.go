package controller

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Password string `json:"password"`
}

// AdminLogin exchanges the admin password for a bearer token. It answers 404
// when admin login is not configured.
func (h *Controller) AdminLogin(c *fiber.Ctx) error {
	if h.issuer == nil || h.adminPasswordHash == "" {
		return fiber.ErrNotFound
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if input.Password == "" {
		return badRequest(c, "Password is required")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.adminPasswordHash), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, expiresAt, err := h.issuer.GenerateToken()
	if err != nil {
		return internalError(c, "issue admin token", err)
	}

	return c.JSON(fiber.Map{
		"token":     token,
		"expiresAt": expiresAt,
	})
}
