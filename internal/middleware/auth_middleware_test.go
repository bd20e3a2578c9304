package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/pkg/utils/jwt"
)

func newApp(issuer *jwt.Issuer) *fiber.App {
	app := fiber.New()
	app.Get("/report", AdminAuth(issuer), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAdminAuthDisabled(t *testing.T) {
	resp, err := newApp(nil).Test(httptest.NewRequest("GET", "/report", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminAuth(t *testing.T) {
	issuer := jwt.NewIssuer("secret", time.Hour)
	app := newApp(issuer)

	resp, err := app.Test(httptest.NewRequest("GET", "/report", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/report", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := issuer.GenerateToken()
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/report", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
