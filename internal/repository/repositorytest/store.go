// Package repositorytest provides an in-memory repository.Store for tests.
package repositorytest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
)

// Store keeps every table in slices guarded by one mutex. FailOn makes a
// named method return the given error instead of touching the data.
type Store struct {
	mu sync.Mutex

	Contacts     []model.Contact
	Subscribers  map[string]*model.NewsletterSubscriber
	Events       []model.AnalyticsEvent
	Visitors     []model.Visitor
	ProjectViews []model.ProjectView

	failures map[string]error
	now      func() time.Time
}

var _ repository.Store = (*Store)(nil)

var errDuplicateKey = errors.New("duplicate key value violates unique constraint")

func New() *Store {
	return &Store{
		Subscribers: map[string]*model.NewsletterSubscriber{},
		failures:    map[string]error{},
		now:         time.Now,
	}
}

// FailOn injects err for every later call of method (e.g. "CreateContact").
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

func (s *Store) fail(method string) error {
	return s.failures[method]
}

// Snapshot accessors take the lock so tests can read while handlers run.

func (s *Store) ContactCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Contacts)
}

func (s *Store) EventNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		names = append(names, e.Event)
	}
	return names
}

func (s *Store) Subscriber(email string) (model.NewsletterSubscriber, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.Subscribers[email]
	if !ok {
		return model.NewsletterSubscriber{}, false
	}
	return *sub, true
}

func (s *Store) CreateContact(_ context.Context, c *model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateContact"); err != nil {
		return err
	}
	_ = c.BeforeCreate(nil)
	c.CreatedAt = s.now()
	s.Contacts = append(s.Contacts, *c)
	return nil
}

func (s *Store) CountContactsSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CountContactsSince"); err != nil {
		return 0, err
	}
	var n int64
	for _, c := range s.Contacts {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindSubscriberByEmail(_ context.Context, email string) (*model.NewsletterSubscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("FindSubscriberByEmail"); err != nil {
		return nil, err
	}
	sub, ok := s.Subscribers[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *Store) CreateSubscriber(_ context.Context, sub *model.NewsletterSubscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateSubscriber"); err != nil {
		return err
	}
	if _, exists := s.Subscribers[sub.Email]; exists {
		return errDuplicateKey
	}
	now := s.now()
	sub.CreatedAt, sub.UpdatedAt = now, now
	cp := *sub
	s.Subscribers[sub.Email] = &cp
	return nil
}

func (s *Store) SetSubscriberActive(_ context.Context, email string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("SetSubscriberActive"); err != nil {
		return err
	}
	sub, ok := s.Subscribers[email]
	if !ok {
		return repository.ErrNotFound
	}
	sub.IsActive = active
	sub.UpdatedAt = s.now()
	return nil
}

func (s *Store) CountSubscribersSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CountSubscribersSince"); err != nil {
		return 0, err
	}
	var n int64
	for _, sub := range s.Subscribers {
		if sub.IsActive && !sub.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateAnalyticsEvent(_ context.Context, e *model.AnalyticsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateAnalyticsEvent"); err != nil {
		return err
	}
	_ = e.BeforeCreate(nil)
	e.CreatedAt = s.now()
	s.Events = append(s.Events, *e)
	return nil
}

func (s *Store) CreateVisitor(_ context.Context, v *model.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateVisitor"); err != nil {
		return err
	}
	_ = v.BeforeCreate(nil)
	v.CreatedAt = s.now()
	s.Visitors = append(s.Visitors, *v)
	return nil
}

func (s *Store) CreateProjectView(_ context.Context, pv *model.ProjectView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateProjectView"); err != nil {
		return err
	}
	_ = pv.BeforeCreate(nil)
	pv.CreatedAt = s.now()
	s.ProjectViews = append(s.ProjectViews, *pv)
	return nil
}

func (s *Store) CountVisitors(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CountVisitors"); err != nil {
		return 0, err
	}
	return int64(len(s.Visitors)), nil
}

func (s *Store) CountEvents(_ context.Context, event string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CountEvents"); err != nil {
		return 0, err
	}
	var n int64
	for _, e := range s.Events {
		if e.Event == event {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountProjectViews(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CountProjectViews"); err != nil {
		return 0, err
	}
	return int64(len(s.ProjectViews)), nil
}

func (s *Store) RecentEvents(_ context.Context, limit int) ([]model.AnalyticsEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("RecentEvents"); err != nil {
		return nil, err
	}
	out := make([]model.AnalyticsEvent, 0, limit)
	for i := len(s.Events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.Events[i])
	}
	return out, nil
}

func (s *Store) TopPages(_ context.Context, limit int) ([]model.PageCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("TopPages"); err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, v := range s.Visitors {
		counts[v.Page]++
	}
	out := make([]model.PageCount, 0, len(counts))
	for page, n := range counts {
		out = append(out, model.PageCount{Page: page, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Page < out[j].Page
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) TopProjects(_ context.Context, limit int) ([]model.ProjectCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("TopProjects"); err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, pv := range s.ProjectViews {
		counts[pv.ProjectID]++
	}
	out := make([]model.ProjectCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, model.ProjectCount{ProjectID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail("Ping")
}
