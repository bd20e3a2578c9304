package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/repository"
	"portfolio_backend/internal/tracking"
	"portfolio_backend/pkg/email"
	"portfolio_backend/pkg/utils/besteffort"
)

const (
	digestWindow   = 24 * time.Hour
	minRunInterval = 23 * time.Hour
	archivePrefix  = "digests"
)

type DigestMailer interface {
	SendDailyDigest(ctx context.Context, data email.DigestData) error
}

type SnapshotArchiver interface {
	PutJSON(ctx context.Context, prefix string, day time.Time, v any) (string, error)
}

// Snapshot is what gets archived for each digest run.
type Snapshot struct {
	GeneratedAt    time.Time         `json:"generatedAt"`
	Since          time.Time         `json:"since"`
	NewContacts    int64             `json:"newContacts"`
	NewSubscribers int64             `json:"newSubscribers"`
	Analytics      *tracking.Summary `json:"analytics"`
}

// DigestJob mails the admin a summary of the last day's activity.
type DigestJob struct {
	store    repository.Store
	tracker  *tracking.Tracker
	mailer   DigestMailer
	archiver SnapshotArchiver

	now func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

// NewDigestJob wires the job. archiver may be nil to skip archiving.
func NewDigestJob(store repository.Store, tracker *tracking.Tracker, mailer DigestMailer, archiver SnapshotArchiver) *DigestJob {
	return &DigestJob{
		store:    store,
		tracker:  tracker,
		mailer:   mailer,
		archiver: archiver,
		now:      time.Now,
	}
}

// Run builds and sends one digest. A second run within 23 hours of a
// successful one is skipped.
func (j *DigestJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	ctx = logger.IntoContext(ctx, logger.FromContext(ctx).With("job", "daily_digest"))
	log := logger.FromContext(ctx)
	now := j.now()

	if !j.lastRun.IsZero() && now.Sub(j.lastRun) < minRunInterval {
		log.Info("digest already sent today, skipping", "last_run", j.lastRun)
		return nil
	}

	snap, err := j.collect(ctx, now)
	if err != nil {
		return err
	}

	data := email.DigestData{
		Date:           now,
		NewContacts:    snap.NewContacts,
		NewSubscribers: snap.NewSubscribers,
		TotalVisitors:  snap.Analytics.TotalVisitors,
		PageViews:      snap.Analytics.PageViews,
		ProjectViews:   snap.Analytics.ProjectViews,
		TopPages:       snap.Analytics.TopPages,
		TopProjects:    snap.Analytics.TopProjects,
	}

	if j.archiver != nil {
		url, err := j.archiver.PutJSON(ctx, archivePrefix, now, snap)
		besteffort.Discard(ctx, "archive digest snapshot", err)
		data.ArchiveURL = url
	}

	if err := j.mailer.SendDailyDigest(ctx, data); err != nil {
		return fmt.Errorf("send daily digest: %w", err)
	}

	j.lastRun = now
	log.Info("daily digest sent",
		"new_contacts", snap.NewContacts,
		"new_subscribers", snap.NewSubscribers,
		"archive_url", data.ArchiveURL)
	return nil
}

func (j *DigestJob) collect(ctx context.Context, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{GeneratedAt: now, Since: now.Add(-digestWindow)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.NewContacts, err = j.store.CountContactsSince(gctx, snap.Since)
		return err
	})
	g.Go(func() (err error) {
		snap.NewSubscribers, err = j.store.CountSubscribersSince(gctx, snap.Since)
		return err
	})
	g.Go(func() (err error) {
		snap.Analytics, err = j.tracker.GetAnalytics(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect digest: %w", err)
	}
	return snap, nil
}

// StartDigest schedules job on a standard five-field cron spec. The caller
// owns the returned scheduler and must Stop it.
func StartDigest(ctx context.Context, schedule string, job *DigestJob) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if err := job.Run(ctx); err != nil {
			logger.FromContext(ctx).Error("daily digest failed", "err", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not schedule digest %q: %w", schedule, err)
	}

	c.Start()
	slog.Info("Digest cron initialized", "schedule", schedule)
	return c, nil
}
