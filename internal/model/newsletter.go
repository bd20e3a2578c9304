package model

import "time"

// NewsletterSubscriber is keyed by email. Unsubscribing only clears IsActive.
type NewsletterSubscriber struct {
	Email     string    `json:"email" gorm:"primaryKey;type:text"`
	Name      *string   `json:"name" gorm:"type:text"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
