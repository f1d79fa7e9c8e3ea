package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author is the stored form of an article author.
type Author struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Bio       string `gorm:"type:text"`
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a uuid when the caller did not provide one.
func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
