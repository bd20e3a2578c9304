package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"portfolio_backend/internal/model"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateContact(ctx context.Context, c *model.Contact) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (s *GormStore) CountContactsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Contact{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}

func (s *GormStore) FindSubscriberByEmail(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	var sub model.NewsletterSubscriber
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return &sub, nil
}

func (s *GormStore) CreateSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	return nil
}

func (s *GormStore) SetSubscriberActive(ctx context.Context, email string, active bool) error {
	res := s.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).
		Where("email = ?", email).
		Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("update subscriber: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CountSubscribersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).
		Where("is_active = ? AND created_at >= ?", true, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}

func (s *GormStore) CreateAnalyticsEvent(ctx context.Context, e *model.AnalyticsEvent) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create analytics event: %w", err)
	}
	return nil
}

func (s *GormStore) CreateVisitor(ctx context.Context, v *model.Visitor) error {
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create visitor: %w", err)
	}
	return nil
}

func (s *GormStore) CreateProjectView(ctx context.Context, pv *model.ProjectView) error {
	if err := s.db.WithContext(ctx).Create(pv).Error; err != nil {
		return fmt.Errorf("create project view: %w", err)
	}
	return nil
}

func (s *GormStore) CountVisitors(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Visitor{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count visitors: %w", err)
	}
	return count, nil
}

func (s *GormStore) CountEvents(ctx context.Context, event string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.AnalyticsEvent{}).
		Where("event = ?", event).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count %s events: %w", event, err)
	}
	return count, nil
}

func (s *GormStore) CountProjectViews(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.ProjectView{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count project views: %w", err)
	}
	return count, nil
}

func (s *GormStore) RecentEvents(ctx context.Context, limit int) ([]model.AnalyticsEvent, error) {
	var events []model.AnalyticsEvent
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return events, nil
}

func (s *GormStore) TopPages(ctx context.Context, limit int) ([]model.PageCount, error) {
	var pages []model.PageCount
	err := s.db.WithContext(ctx).Model(&model.Visitor{}).
		Select("page, COUNT(*) AS count").
		Group("page").
		Order("count DESC").
		Limit(limit).
		Scan(&pages).Error
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	return pages, nil
}

func (s *GormStore) TopProjects(ctx context.Context, limit int) ([]model.ProjectCount, error) {
	var projects []model.ProjectCount
	err := s.db.WithContext(ctx).Model(&model.ProjectView{}).
		Select("project_id, COUNT(*) AS count").
		Group("project_id").
		Order("count DESC").
		Limit(limit).
		Scan(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}
	return projects, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
