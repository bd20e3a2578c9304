package repository

import (
	"context"
	"errors"
	"time"

	"portfolio_backend/internal/model"
)

var ErrNotFound = errors.New("record not found")

// Store is the persistence gateway used by handlers and the tracking layer.
// Create methods fill in the generated ID on the passed record.
type Store interface {
	CreateContact(ctx context.Context, c *model.Contact) error
	CountContactsSince(ctx context.Context, since time.Time) (int64, error)

	FindSubscriberByEmail(ctx context.Context, email string) (*model.NewsletterSubscriber, error)
	CreateSubscriber(ctx context.Context, s *model.NewsletterSubscriber) error
	SetSubscriberActive(ctx context.Context, email string, active bool) error
	CountSubscribersSince(ctx context.Context, since time.Time) (int64, error)

	CreateAnalyticsEvent(ctx context.Context, e *model.AnalyticsEvent) error
	CreateVisitor(ctx context.Context, v *model.Visitor) error
	CreateProjectView(ctx context.Context, pv *model.ProjectView) error

	CountVisitors(ctx context.Context) (int64, error)
	CountEvents(ctx context.Context, event string) (int64, error)
	CountProjectViews(ctx context.Context) (int64, error)
	RecentEvents(ctx context.Context, limit int) ([]model.AnalyticsEvent, error)
	TopPages(ctx context.Context, limit int) ([]model.PageCount, error)
	TopProjects(ctx context.Context, limit int) ([]model.ProjectCount, error)

	Ping(ctx context.Context) error
}

// Models lists every table the store owns, for migrations.
func Models() []interface{} {
	return []interface{}{
		&model.Contact{},
		&model.NewsletterSubscriber{},
		&model.AnalyticsEvent{},
		&model.Visitor{},
		&model.ProjectView{},
	}
}
