package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/news"
	"gorm.io/gorm"
)

// AuthorService wraps author related operations.
type AuthorService struct {
	db *gorm.DB
}

// NewAuthorService creates an AuthorService instance.
func NewAuthorService(gdb *gorm.DB) *AuthorService {
	return &AuthorService{db: gdb}
}

// List returns authors ordered by name.
func (s *AuthorService) List(ctx context.Context) ([]news.Author, error) {
	var models []db.Author
	if err := s.db.WithContext(ctx).Order("name asc").Order("id asc").Find(&models).Error; err != nil {
		return nil, err
	}
	authors := make([]news.Author, len(models))
	for i := range models {
		authors[i] = authorFromModel(models[i])
	}
	return authors, nil
}

// Get loads one author.
func (s *AuthorService) Get(ctx context.Context, id string) (news.Author, error) {
	var model db.Author
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return news.Author{}, notFound(err, "author "+id)
	}
	return authorFromModel(model), nil
}

// Create stores a new author. Emails are unique, ignoring case.
func (s *AuthorService) Create(ctx context.Context, a news.Author) (news.Author, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if err := news.ValidateAuthor(a); err != nil {
		return news.Author{}, err
	}

	model := db.Author{Name: a.Name, Email: a.Email, Bio: a.Bio, AvatarURL: a.AvatarURL}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return news.Author{}, fmt.Errorf("author email %q: %w", a.Email, news.ErrConflict)
		}
		return news.Author{}, err
	}
	return authorFromModel(model), nil
}

// Update merges the present fields of upd into the stored author.
func (s *AuthorService) Update(ctx context.Context, id string, upd news.AuthorUpdate) (news.Author, error) {
	if err := upd.Validate(); err != nil {
		return news.Author{}, err
	}

	var model db.Author
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return news.Author{}, notFound(err, "author "+id)
	}

	current := authorFromModel(model)
	upd.Apply(&current)
	model.Name = strings.TrimSpace(current.Name)
	model.Email = strings.ToLower(strings.TrimSpace(current.Email))
	model.Bio = current.Bio
	model.AvatarURL = current.AvatarURL

	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return news.Author{}, fmt.Errorf("author email %q: %w", model.Email, news.ErrConflict)
		}
		return news.Author{}, err
	}
	return authorFromModel(model), nil
}

// Delete removes an author who no longer has articles.
func (s *AuthorService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Article{}).Where("author_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("author %s still has %d articles: %w", id, count, news.ErrConflict)
		}

		result := tx.Where("id = ?", id).Delete(&db.Author{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("author %s: %w", id, news.ErrNotFound)
		}
		return nil
	})
}
