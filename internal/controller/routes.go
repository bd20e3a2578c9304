package controller

import (
	"github.com/gofiber/fiber/v2"

	"portfolio_backend/internal/middleware"
)

func SetupRoutes(app *fiber.App, h *Controller) {
	app.Get("/healthz", h.Healthz)
	app.Get("/readyz", h.Readyz)

	api := app.Group("/api")

	api.Post("/contact", h.SubmitContact)

	api.Post("/newsletter", h.Subscribe)
	api.Delete("/newsletter", h.Unsubscribe)

	api.Post("/analytics", h.TrackAnalytics)
	api.Get("/analytics", middleware.AdminAuth(h.issuer), h.GetAnalytics)

	api.Get("/visitor-count", h.GetVisitorCount)

	api.Post("/admin/login", h.AdminLogin)
}
