package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/tracking"
	"portfolio_backend/pkg/utils/besteffort"
	"portfolio_backend/pkg/utils/validation"
)

type NewsletterSubscriptionInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type NewsletterUnsubscribeInput struct {
	Email string `json:"email"`
}

// Addresses are keyed case-insensitively.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (h *Controller) Subscribe(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input NewsletterSubscriptionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if input.Email == "" {
		return badRequest(c, "Email is required")
	}
	if err := validation.Email(input.Email); err != nil {
		return badRequest(c, "Invalid email format")
	}

	existing, err := h.store.FindSubscriberByEmail(ctx, input.Email)
	switch {
	case err == nil && existing.IsActive:
		return badRequest(c, "Email already subscribed")
	case err == nil:
		if err := h.store.SetSubscriberActive(ctx, input.Email, true); err != nil {
			return internalError(c, "reactivate subscriber", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		sub := model.NewsletterSubscriber{Email: input.Email, IsActive: true}
		if input.Name != "" {
			sub.Name = &input.Name
		}
		if err := h.store.CreateSubscriber(ctx, &sub); err != nil {
			return internalError(c, "create subscriber", err)
		}
	default:
		return internalError(c, "find subscriber", err)
	}

	besteffort.Do(ctx, "newsletter welcome email", func(ctx context.Context) error {
		return h.mailer.SendNewsletterWelcome(ctx, input.Email, input.Name)
	})

	data := map[string]any{"email": input.Email}
	if input.Name != "" {
		data["name"] = input.Name
	}
	besteffort.Discard(ctx, "track newsletter_subscribe", h.tracker.TrackEvent(ctx, tracking.Event{
		Name:      model.EventNewsletterSubscribe,
		Data:      data,
		IP:        clientIP(c),
		UserAgent: userAgent(c),
	}))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Successfully subscribed to newsletter!",
	})
}

// Unsubscribe is idempotent for known addresses. Unknown addresses are a
// client error.
func (h *Controller) Unsubscribe(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input NewsletterUnsubscribeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	input.Email = normalizeEmail(input.Email)

	if input.Email == "" {
		return badRequest(c, "Email is required")
	}

	if err := h.store.SetSubscriberActive(ctx, input.Email, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return badRequest(c, "Email is not subscribed")
		}
		return internalError(c, "deactivate subscriber", err)
	}

	besteffort.Discard(ctx, "track newsletter_unsubscribe", h.tracker.TrackEvent(ctx, tracking.Event{
		Name:      model.EventNewsletterUnsubscribe,
		Data:      map[string]any{"email": input.Email},
		IP:        clientIP(c),
		UserAgent: userAgent(c),
	}))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Successfully unsubscribed from newsletter",
	})
}
