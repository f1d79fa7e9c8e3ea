package db

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a back-office account allowed into the management views.
type User struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"default:EDITOR"`
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a uuid when the caller did not provide one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PasswordReset is a one-time token issued by the forgot-password flow.
type PasswordReset struct {
	Token     string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;index"`
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// EnsureUser creates an ADMIN account with a bcrypt hash when email and
// password are both set and no account with that email exists yet.
func EnsureUser(gdb *gorm.DB, name, email, password string) error {
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		displayName := strings.TrimSpace(name)
		if displayName == "" {
			displayName = trimmedEmail
		}

		return gdb.Create(&User{
			Name:     displayName,
			Email:    trimmedEmail,
			Password: string(hashed),
			Role:     "ADMIN",
		}).Error
	}

	return nil
}
