package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/model"
	"portfolio_backend/pkg/config"
)

// fakeResend records every message posted to it and fails sends to failFor.
type fakeResend struct {
	mu      sync.Mutex
	sent    []EmailData
	failFor string
}

func (f *fakeResend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var msg EmailData
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.Header.Get("Authorization") != "Bearer test-key" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	f.mu.Lock()
	f.sent = append(f.sent, msg)
	fail := msg.To == f.failFor
	f.mu.Unlock()

	if fail {
		http.Error(w, `{"message":"rejected"}`, http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"id":"msg_1"}`))
}

func newTestService(t *testing.T, fake *fakeResend, adminTo string) *EmailService {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := NewEmailService(config.EmailConfig{
		APIKey:    "test-key",
		APIURL:    srv.URL,
		From:      "site@example.com",
		AdminTo:   adminTo,
		OwnerName: "Jane Doe",
	}, srv.Client())
	require.NoError(t, err)
	return svc
}

func TestNewEmailServiceRequiresKey(t *testing.T) {
	_, err := NewEmailService(config.EmailConfig{}, nil)
	assert.Error(t, err)
}

func TestSendContactEmail(t *testing.T) {
	fake := &fakeResend{}
	svc := newTestService(t, fake, "admin@example.com")

	err := svc.SendContactEmail(context.Background(), ContactMessage{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hiring",
		Message: "line one\n<b>line two</b>",
	})
	require.NoError(t, err)
	require.Len(t, fake.sent, 2)

	admin := fake.sent[0]
	assert.Equal(t, "admin@example.com", admin.To)
	assert.Equal(t, "site@example.com", admin.From)
	assert.Equal(t, "ada@example.com", admin.ReplyTo)
	assert.Equal(t, "Portfolio Contact: Hiring", admin.Subject)
	assert.Contains(t, admin.Html, "line one<br>&lt;b&gt;line two&lt;/b&gt;")

	reply := fake.sent[1]
	assert.Equal(t, "ada@example.com", reply.To)
	assert.Equal(t, "Thank you for contacting Jane Doe", reply.Subject)
	assert.Contains(t, reply.Html, "Hi Ada,")
}

func TestSendContactEmailAttemptsBothOnFailure(t *testing.T) {
	fake := &fakeResend{failFor: "admin@example.com"}
	svc := newTestService(t, fake, "admin@example.com")

	err := svc.SendContactEmail(context.Background(), ContactMessage{
		Name: "Ada", Email: "ada@example.com", Subject: "s", Message: "m",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin notification")
	assert.Len(t, fake.sent, 2)
}

func TestAdminFallsBackToSender(t *testing.T) {
	fake := &fakeResend{}
	svc := newTestService(t, fake, "")

	require.NoError(t, svc.SendDailyDigest(context.Background(), DigestData{
		Date:        time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		NewContacts: 2,
		TopPages:    []model.PageCount{{Page: "home", Count: 9}},
	}))

	require.Len(t, fake.sent, 1)
	assert.Equal(t, "site@example.com", fake.sent[0].To)
	assert.Contains(t, fake.sent[0].Html, "2026-03-04")
	assert.Contains(t, fake.sent[0].Html, "home (9)")
}

func TestSendNewsletterWelcome(t *testing.T) {
	fake := &fakeResend{}
	svc := newTestService(t, fake, "admin@example.com")

	require.NoError(t, svc.SendNewsletterWelcome(context.Background(), "sub@example.com", ""))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "Welcome to Jane Doe's Newsletter!", fake.sent[0].Subject)
	assert.True(t, strings.Contains(fake.sent[0].Html, "Hi there,"))

	fake.mu.Lock()
	fake.failFor = "sub@example.com"
	fake.mu.Unlock()
	assert.Error(t, svc.SendNewsletterWelcome(context.Background(), "sub@example.com", "Sam"))
}
