package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/news"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultResetTokenTTL = time.Hour
	minPasswordLength    = 8
)

var errInvalidCredentials = &news.AuthError{StatusCode: http.StatusUnauthorized, Message: "invalid email or password"}

// ResetNotifier hands a freshly issued reset token to the account owner.
// The token never travels back to whoever asked for the reset.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, user news.User, token string, expiresAt time.Time) error
}

// LogResetNotifier writes reset tokens to the server log. It stands in for
// mail delivery.
type LogResetNotifier struct{}

func (LogResetNotifier) NotifyPasswordReset(_ context.Context, user news.User, token string, expiresAt time.Time) error {
	logger.InfoWithFields("password reset issued", logger.Fields{
		"user_id":    user.ID,
		"email":      user.Email,
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
	return nil
}

// AuthService backs the auth gateway: accounts, login and password resets.
type AuthService struct {
	db       *gorm.DB
	notifier ResetNotifier
	resetTTL time.Duration
	now      func() time.Time
}

// NewAuthService creates an AuthService issuing reset tokens valid for one
// hour and delivering them through LogResetNotifier.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{
		db:       gdb,
		notifier: LogResetNotifier{},
		resetTTL: defaultResetTokenTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNotifier swaps the reset token delivery. A nil notifier is ignored.
func (s *AuthService) WithNotifier(n ResetNotifier) *AuthService {
	if n != nil {
		s.notifier = n
	}
	return s
}

// Register creates an EDITOR account.
func (s *AuthService) Register(ctx context.Context, reg news.Registration) (news.User, error) {
	name := strings.TrimSpace(reg.Name)
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if name == "" {
		return news.User{}, &news.ValidationError{Field: "name", Message: "name is required"}
	}
	if !strings.Contains(email, "@") {
		return news.User{}, &news.ValidationError{Field: "email", Message: "email is invalid"}
	}
	if err := checkPassword(reg.Password); err != nil {
		return news.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return news.User{}, err
	}

	user := db.User{Name: name, Email: email, Password: string(hashed), Role: "EDITOR"}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return news.User{}, &news.AuthError{StatusCode: http.StatusConflict, Message: "email already registered"}
		}
		return news.User{}, err
	}
	return userFromModel(user), nil
}

// Login checks the credentials and returns the account.
func (s *AuthService) Login(ctx context.Context, creds news.Credentials) (news.User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return news.User{}, errInvalidCredentials
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return news.User{}, errInvalidCredentials
		}
		return news.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return news.User{}, errInvalidCredentials
	}
	return userFromModel(user), nil
}

// ForgotPassword issues a reset token and hands it to the notifier. An
// unknown email is not an error, so callers see the same outcome either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return &news.ValidationError{Field: "email", Message: "email is required"}
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	now := s.now()
	reset := db.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&reset).Error; err != nil {
		return err
	}
	return s.notifier.NotifyPasswordReset(ctx, userFromModel(user), reset.Token, reset.ExpiresAt)
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, req news.PasswordReset) error {
	if err := checkPassword(req.Password); err != nil {
		return err
	}
	invalid := &news.AuthError{StatusCode: http.StatusBadRequest, Message: "reset token is invalid or expired"}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset db.PasswordReset
		if err := tx.Where("token = ?", strings.TrimSpace(req.Token)).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid
			}
			return err
		}
		now := s.now()
		if reset.UsedAt != nil || now.After(reset.ExpiresAt) {
			return invalid
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := tx.Model(&db.User{}).Where("id = ?", reset.UserID).Update("password", string(hashed)).Error; err != nil {
			return err
		}
		reset.UsedAt = &now
		return tx.Save(&reset).Error
	})
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return &news.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

func userFromModel(u db.User) news.User {
	return news.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, AvatarURL: u.AvatarURL}
}
