package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/model"
	"portfolio_backend/pkg/config"
)

type EmailService struct {
	apiKey    string
	apiURL    string
	from      string
	adminTo   string
	ownerName string
	client    *http.Client
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

// ContactMessage is the submitted contact form, echoed to both recipients.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type contactTemplateData struct {
	ContactMessage
	OwnerName string
}

type WelcomeEmailData struct {
	Name      string
	OwnerName string
}

type DigestData struct {
	Date           time.Time
	NewContacts    int64
	NewSubscribers int64
	TotalVisitors  int64
	PageViews      int64
	ProjectViews   int64
	TopPages       []model.PageCount
	TopProjects    []model.ProjectCount
	ArchiveURL     string
}

// NewEmailService builds the Resend-backed mailer. A nil client means
// http.DefaultClient.
func NewEmailService(cfg config.EmailConfig, client *http.Client) (*EmailService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %w", err)
	}

	if client == nil {
		client = http.DefaultClient
	}

	adminTo := cfg.AdminTo
	if adminTo == "" {
		adminTo = cfg.From
	}

	return &EmailService{
		apiKey:    cfg.APIKey,
		apiURL:    cfg.APIURL,
		from:      cfg.From,
		adminTo:   adminTo,
		ownerName: cfg.OwnerName,
		client:    client,
		templates: templates,
	}, nil
}

func (s *EmailService) render(templateName string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func (s *EmailService) send(ctx context.Context, msg EmailData) error {
	msg.From = s.from

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	logger.FromContext(ctx).Debug("resend api response",
		"to", msg.To, "subject", msg.Subject, "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, to, replyTo, subject, templateName string, data interface{}) error {
	html, err := s.render(templateName, data)
	if err != nil {
		return err
	}
	return s.send(ctx, EmailData{To: to, Subject: subject, Html: html, ReplyTo: replyTo})
}

// SendContactEmail notifies the admin and sends the submitter an auto-reply.
// Both sends are attempted; the first failure is returned, joined with the second.
func (s *EmailService) SendContactEmail(ctx context.Context, msg ContactMessage) error {
	data := contactTemplateData{ContactMessage: msg, OwnerName: s.ownerName}

	adminErr := s.sendTemplateEmail(ctx, s.adminTo, msg.Email,
		"Portfolio Contact: "+msg.Subject, "contact_admin.html", data)
	if adminErr != nil {
		adminErr = fmt.Errorf("admin notification: %w", adminErr)
	}

	replyErr := s.sendTemplateEmail(ctx, msg.Email, "",
		"Thank you for contacting "+s.ownerName, "contact_autoreply.html", data)
	if replyErr != nil {
		replyErr = fmt.Errorf("auto-reply: %w", replyErr)
	}

	return errors.Join(adminErr, replyErr)
}

func (s *EmailService) SendNewsletterWelcome(ctx context.Context, email, name string) error {
	data := WelcomeEmailData{Name: name, OwnerName: s.ownerName}
	return s.sendTemplateEmail(ctx, email, "",
		fmt.Sprintf("Welcome to %s's Newsletter!", s.ownerName), "newsletter_welcome.html", data)
}

// SendDailyDigest mails the admin the daily activity report.
func (s *EmailService) SendDailyDigest(ctx context.Context, data DigestData) error {
	subject := fmt.Sprintf("Your portfolio digest for %s 📊", data.Date.Format("Jan 2"))
	return s.sendTemplateEmail(ctx, s.adminTo, "", subject, "daily_digest.html", data)
}
