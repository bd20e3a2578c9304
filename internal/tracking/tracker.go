package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
)

const (
	recentEventsLimit = 10
	topPagesLimit     = 5
	topProjectsLimit  = 5
)

// Event is one analytics entry before it is stored.
type Event struct {
	Name      string
	Data      map[string]any
	IP        string
	UserAgent string
}

// Summary is the aggregate analytics report.
type Summary struct {
	TotalVisitors int64                  `json:"totalVisitors"`
	PageViews     int64                  `json:"pageViews"`
	ProjectViews  int64                  `json:"projectViews"`
	RecentEvents  []model.AnalyticsEvent `json:"recentEvents"`
	TopPages      []model.PageCount      `json:"topPages"`
	TopProjects   []model.ProjectCount   `json:"topProjects"`
}

type Tracker struct {
	store repository.Store
}

func NewTracker(store repository.Store) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) TrackEvent(ctx context.Context, ev Event) error {
	if strings.TrimSpace(ev.Name) == "" {
		return errors.New("event name is required")
	}

	row := model.AnalyticsEvent{
		Event:     ev.Name,
		IP:        ev.IP,
		UserAgent: optional(ev.UserAgent),
	}
	if ev.Data != nil {
		raw, err := json.Marshal(ev.Data)
		if err != nil {
			return fmt.Errorf("encode %s data: %w", ev.Name, err)
		}
		row.Data = datatypes.JSON(raw)
	}

	return t.store.CreateAnalyticsEvent(ctx, &row)
}

// TrackPageView writes a page_view event and a visitor row. The writes are
// independent: both are attempted and either may land without the other.
func (t *Tracker) TrackPageView(ctx context.Context, page, ip, userAgent string) error {
	eventErr := t.TrackEvent(ctx, Event{
		Name:      model.EventPageView,
		Data:      map[string]any{"page": page},
		IP:        ip,
		UserAgent: userAgent,
	})

	visitorErr := t.store.CreateVisitor(ctx, &model.Visitor{
		IP:        ip,
		UserAgent: optional(userAgent),
		Page:      page,
	})

	return errors.Join(eventErr, visitorErr)
}

// TrackProjectView writes a project view row and a project_view event. The id
// is stored as sent, minus surrounding whitespace.
func (t *Tracker) TrackProjectView(ctx context.Context, projectID, ip, userAgent string) error {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return errors.New("project id is required")
	}

	viewErr := t.store.CreateProjectView(ctx, &model.ProjectView{
		ProjectID: projectID,
		IP:        ip,
		UserAgent: optional(userAgent),
	})

	eventErr := t.TrackEvent(ctx, Event{
		Name:      model.EventProjectView,
		Data:      map[string]any{"projectId": projectID},
		IP:        ip,
		UserAgent: userAgent,
	})

	return errors.Join(viewErr, eventErr)
}

// GetAnalytics runs every aggregate concurrently. If any of them fails the
// whole report fails; partial summaries are never returned.
func (t *Tracker) GetAnalytics(ctx context.Context) (*Summary, error) {
	var s Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		s.TotalVisitors, err = t.store.CountVisitors(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.PageViews, err = t.store.CountEvents(gctx, model.EventPageView)
		return err
	})
	g.Go(func() (err error) {
		s.ProjectViews, err = t.store.CountProjectViews(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.RecentEvents, err = t.store.RecentEvents(gctx, recentEventsLimit)
		return err
	})
	g.Go(func() (err error) {
		s.TopPages, err = t.store.TopPages(gctx, topPagesLimit)
		return err
	})
	g.Go(func() (err error) {
		s.TopProjects, err = t.store.TopProjects(gctx, topProjectsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get analytics: %w", err)
	}
	return &s, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
