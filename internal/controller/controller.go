package controller

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/tracking"
	"portfolio_backend/pkg/email"
	"portfolio_backend/pkg/utils/jwt"
	"portfolio_backend/pkg/utils/validation"
)

// Mailer is the part of the email service the handlers depend on.
type Mailer interface {
	SendContactEmail(ctx context.Context, msg email.ContactMessage) error
	SendNewsletterWelcome(ctx context.Context, to, name string) error
}

// Deps are constructed once at startup and shared by every request.
type Deps struct {
	Store   repository.Store
	Tracker *tracking.Tracker
	Mailer  Mailer

	// Issuer and AdminPasswordHash are nil/empty when admin login is off.
	Issuer            *jwt.Issuer
	AdminPasswordHash string
}

type Controller struct {
	store             repository.Store
	tracker           *tracking.Tracker
	mailer            Mailer
	issuer            *jwt.Issuer
	adminPasswordHash string
}

func New(d Deps) *Controller {
	tracker := d.Tracker
	if tracker == nil {
		tracker = tracking.NewTracker(d.Store)
	}
	return &Controller{
		store:             d.Store,
		tracker:           tracker,
		mailer:            d.Mailer,
		issuer:            d.Issuer,
		adminPasswordHash: d.AdminPasswordHash,
	}
}

// ErrorHandler is the fiber fallback. Internal details never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok && e.Code < fiber.StatusInternalServerError {
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}
	logger.FromContext(c.UserContext()).Error("unhandled error", "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return model.UnknownIP
}

func userAgent(c *fiber.Ctx) string {
	return c.Get(fiber.HeaderUserAgent)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func invalidFields(c *fiber.Ctx, msg string, errs []validation.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  msg,
		"fields": validation.Fields(errs),
	})
}

// internalError logs err with the request id and answers with a generic 500.
func internalError(c *fiber.Ctx, op string, err error) error {
	logger.FromContext(c.UserContext()).Error(op+" failed", "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
