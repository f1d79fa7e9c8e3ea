package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is the stored form of a news article.
type Article struct {
	ID             string `gorm:"primaryKey;size:36"`
	Slug           string `gorm:"uniqueIndex;not null"`
	Title          string `gorm:"not null"`
	Subtitle       string
	Excerpt        string `gorm:"type:text"`
	Content        string `gorm:"type:text"`
	ImageURL       string
	Category       string   `gorm:"index"`
	Tags           []string `gorm:"serializer:json"`
	AuthorID       string   `gorm:"size:36;index"`
	Author         *Author
	PublishedAt    *time.Time `gorm:"index"`
	Featured       bool       `gorm:"index"`
	IsDraft        bool       `gorm:"index"`
	SEOTitle       string
	SEODescription string
	SEOImage       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BeforeCreate assigns a uuid when the caller did not provide one.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
