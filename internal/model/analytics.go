package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event names recorded by the tracking layer.
const (
	EventPageView              = "page_view"
	EventProjectView           = "project_view"
	EventContactFormSubmit     = "contact_form_submit"
	EventNewsletterSubscribe   = "newsletter_subscribe"
	EventNewsletterUnsubscribe = "newsletter_unsubscribe"
)

// UnknownIP is stored when the client address cannot be determined.
const UnknownIP = "unknown"

// AnalyticsEvent is an append-only log entry. Data is an opaque JSON payload.
type AnalyticsEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Event     string         `json:"event" gorm:"type:text;not null;index"`
	Data      datatypes.JSON `json:"data"`
	IP        string         `json:"ip" gorm:"type:text;not null;default:'unknown'"`
	UserAgent *string        `json:"userAgent"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics"
}

func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.IP == "" {
		e.IP = UnknownIP
	}
	return nil
}
