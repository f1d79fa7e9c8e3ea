package news

import (
	"strings"
	"time"
)

// ArticleUpdate carries a partial article edit. Nil fields are left unchanged.
type ArticleUpdate struct {
	Slug           *string    `json:"slug,omitempty"`
	Title          *string    `json:"title,omitempty"`
	Subtitle       *string    `json:"subtitle,omitempty"`
	Excerpt        *string    `json:"excerpt,omitempty"`
	Content        *string    `json:"content,omitempty"`
	ImageURL       *string    `json:"imageUrl,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Tags           *[]string  `json:"tags,omitempty"`
	AuthorID       *string    `json:"authorId,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	Featured       *bool      `json:"featured,omitempty"`
	IsDraft        *bool      `json:"isDraft,omitempty"`
	SEOTitle       *string    `json:"seoTitle,omitempty"`
	SEODescription *string    `json:"seoDescription,omitempty"`
	SEOImage       *string    `json:"seoImage,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u ArticleUpdate) Empty() bool {
	return u == ArticleUpdate{}
}

// Apply merges the present fields into a. Author data is never touched.
func (u ArticleUpdate) Apply(a *Article) {
	setString(&a.Slug, u.Slug)
	setString(&a.Title, u.Title)
	setString(&a.Subtitle, u.Subtitle)
	setString(&a.Excerpt, u.Excerpt)
	setString(&a.Content, u.Content)
	setString(&a.ImageURL, u.ImageURL)
	setString(&a.Category, u.Category)
	setString(&a.AuthorID, u.AuthorID)
	setString(&a.SEOTitle, u.SEOTitle)
	setString(&a.SEODescription, u.SEODescription)
	setString(&a.SEOImage, u.SEOImage)
	if u.Tags != nil {
		a.Tags = NormalizeTags(*u.Tags)
	}
	if u.PublishedAt != nil {
		published := *u.PublishedAt
		a.PublishedAt = &published
	}
	if u.Featured != nil {
		a.Featured = *u.Featured
	}
	if u.IsDraft != nil {
		a.IsDraft = *u.IsDraft
	}
}

// Validate checks the fields that must stay non-empty once set.
func (u ArticleUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if u.Slug != nil && strings.TrimSpace(*u.Slug) == "" {
		return &ValidationError{Field: "slug", Message: "slug must not be empty"}
	}
	if u.AuthorID != nil && strings.TrimSpace(*u.AuthorID) == "" {
		return &ValidationError{Field: "authorId", Message: "authorId must not be empty"}
	}
	return nil
}

// AuthorUpdate carries a partial author edit. Nil fields are left unchanged.
type AuthorUpdate struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Apply merges the present fields into a.
func (u AuthorUpdate) Apply(a *Author) {
	setString(&a.Name, u.Name)
	setString(&a.Email, u.Email)
	setString(&a.Bio, u.Bio)
	setString(&a.AvatarURL, u.AvatarURL)
}

// Validate checks the fields that must stay non-empty once set.
func (u AuthorUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return &ValidationError{Field: "name", Message: "name must not be empty"}
	}
	if u.Email != nil && !strings.Contains(*u.Email, "@") {
		return &ValidationError{Field: "email", Message: "email is invalid"}
	}
	return nil
}

// ValidateArticle checks a new article before it is submitted.
func ValidateArticle(a Article) error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(a.AuthorID) == "" {
		return &ValidationError{Field: "authorId", Message: "authorId is required"}
	}
	return nil
}

// ValidateAuthor checks a new author before it is submitted.
func ValidateAuthor(a Author) error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !strings.Contains(a.Email, "@") {
		return &ValidationError{Field: "email", Message: "email is invalid"}
	}
	return nil
}

// NormalizeTags trims tags and drops blanks and exact duplicates.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// String returns a pointer to s, handy for building updates.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
