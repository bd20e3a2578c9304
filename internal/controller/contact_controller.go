package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/tracking"
	"portfolio_backend/pkg/email"
	"portfolio_backend/pkg/utils/besteffort"
	"portfolio_backend/pkg/utils/validation"
)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (in *ContactInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
}

func (in ContactInput) missing() []validation.FieldError {
	return validation.RequiredFields(
		validation.Field{Name: "name", Value: in.Name},
		validation.Field{Name: "email", Value: in.Email},
		validation.Field{Name: "subject", Value: in.Subject},
		validation.Field{Name: "message", Value: in.Message},
	)
}

// SubmitContact stores the message before mailing it, so a mail failure never
// loses a submission.
func (h *Controller) SubmitContact(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var input ContactInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}
	input.normalize()

	if errs := input.missing(); len(errs) > 0 {
		return invalidFields(c, "All fields are required", errs)
	}
	if err := validation.Email(input.Email); err != nil {
		return badRequest(c, "Invalid email format")
	}

	contact := model.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Subject: input.Subject,
		Message: input.Message,
	}
	if err := h.store.CreateContact(ctx, &contact); err != nil {
		return internalError(c, "save contact", err)
	}

	emailSent := true
	if err := h.mailer.SendContactEmail(ctx, email.ContactMessage{
		Name:    contact.Name,
		Email:   contact.Email,
		Subject: contact.Subject,
		Message: contact.Message,
	}); err != nil {
		emailSent = false
		logger.FromContext(ctx).Error("contact email failed",
			"contact_id", contact.ID, "err", err)
	}

	besteffort.Discard(ctx, "track contact_form_submit", h.tracker.TrackEvent(ctx, tracking.Event{
		Name: model.EventContactFormSubmit,
		Data: map[string]any{
			"contactId": contact.ID.String(),
			"subject":   contact.Subject,
		},
		IP:        clientIP(c),
		UserAgent: userAgent(c),
	}))

	message := "Message sent successfully! I'll get back to you soon."
	if !emailSent {
		message = "Message saved but email sending failed. I'll still receive your message."
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   message,
		"contactId": contact.ID,
		"emailSent": emailSent,
	})
}
