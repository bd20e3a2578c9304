package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/model"
	"portfolio_backend/pkg/utils/besteffort"
)

type TrackInput struct {
	Type string `json:"type"`
	Data struct {
		Page      string `json:"page"`
		ProjectID string `json:"projectId"`
	} `json:"data"`
}

// TrackAnalytics records a page or project view. Storage failures are logged
// and do not change the response.
func (h *Controller) TrackAnalytics(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input TrackInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	ip, ua := clientIP(c), userAgent(c)

	switch input.Type {
	case model.EventPageView:
		page := strings.TrimSpace(input.Data.Page)
		if page == "" {
			return badRequest(c, "Page is required")
		}
		besteffort.Discard(ctx, "track page_view", h.tracker.TrackPageView(ctx, page, ip, ua))

	case model.EventProjectView:
		projectID := strings.TrimSpace(input.Data.ProjectID)
		if projectID == "" {
			return badRequest(c, "Project ID is required")
		}
		besteffort.Discard(ctx, "track project_view",
			h.tracker.TrackProjectView(ctx, projectID, ip, ua))

	default:
		return badRequest(c, "Invalid tracking type")
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *Controller) GetAnalytics(c *fiber.Ctx) error {
	summary, err := h.tracker.GetAnalytics(c.UserContext())
	if err != nil {
		logger.FromContext(c.UserContext()).Error("analytics summary failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch analytics",
		})
	}
	return c.JSON(summary)
}

func (h *Controller) GetVisitorCount(c *fiber.Ctx) error {
	count, err := h.store.CountVisitors(c.UserContext())
	if err != nil {
		return internalError(c, "count visitors", err)
	}
	return c.JSON(fiber.Map{"count": count})
}
