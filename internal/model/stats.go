package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visitor is one page-view hit, kept only for counting and grouping.
type Visitor struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	IP        string    `json:"ip" gorm:"type:text;not null;index"`
	UserAgent *string   `json:"userAgent"`
	Page      string    `json:"page" gorm:"type:text;not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

// ProjectView is one view of a portfolio project card.
type ProjectView struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID string    `json:"projectId" gorm:"type:text;not null;index"`
	IP        string    `json:"ip" gorm:"type:text;not null"`
	UserAgent *string   `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

// PageCount is a row of the top pages report.
type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

// ProjectCount is a row of the top projects report.
type ProjectCount struct {
	ProjectID string `json:"projectId"`
	Count     int64  `json:"count"`
}

func (v *Visitor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.IP == "" {
		v.IP = UnknownIP
	}
	return nil
}

func (pv *ProjectView) BeforeCreate(tx *gorm.DB) error {
	if pv.ID == uuid.Nil {
		pv.ID = uuid.New()
	}
	if pv.IP == "" {
		pv.IP = UnknownIP
	}
	return nil
}
