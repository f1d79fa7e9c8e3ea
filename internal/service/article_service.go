package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/news"
	"gorm.io/gorm"
)

const maxPageSize = 100

// ArticleInput is a new article plus the format its content was written in.
type ArticleInput struct {
	Article       news.Article
	ContentFormat string
}

// ArticleList is one page of articles. Size is zero when the list is unpaged.
type ArticleList struct {
	Articles []news.Article
	Total    int64
	Page     int
	Size     int
}

// ArticleService stores and queries articles.
type ArticleService struct {
	db        *gorm.DB
	content   *ContentPolicy
	analytics *AnalyticsService
	now       func() time.Time
}

// NewArticleService creates an ArticleService.
func NewArticleService(gdb *gorm.DB, content *ContentPolicy, analytics *AnalyticsService) *ArticleService {
	return &ArticleService{
		db:        gdb,
		content:   content,
		analytics: analytics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ArticleService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&db.Article{}).
		Preload("Author").
		Order("published_at IS NULL").
		Order("published_at DESC").
		Order("created_at DESC")
}

// List returns every article, drafts included. A positive size pages the
// result; page is zero based.
func (s *ArticleService) List(ctx context.Context, page, size int) (ArticleList, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&db.Article{}).Count(&total).Error; err != nil {
		return ArticleList{}, err
	}

	q := s.query(ctx)
	if size > 0 {
		if size > maxPageSize {
			size = maxPageSize
		}
		if page < 0 {
			page = 0
		}
		q = q.Offset(page * size).Limit(size)
	} else {
		page = 0
	}

	articles, err := s.find(ctx, q)
	if err != nil {
		return ArticleList{}, err
	}
	return ArticleList{Articles: articles, Total: total, Page: page, Size: size}, nil
}

// Get loads an article by id.
func (s *ArticleService) Get(ctx context.Context, id string) (news.Article, error) {
	return s.first(ctx, "id = ?", id)
}

// GetBySlug loads an article by slug.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (news.Article, error) {
	return s.first(ctx, "slug = ?", strings.TrimSpace(slug))
}

// Featured returns featured articles that are not drafts.
func (s *ArticleService) Featured(ctx context.Context) ([]news.Article, error) {
	return s.find(ctx, s.query(ctx).Where("featured = ? AND is_draft = ?", true, false))
}

// ByCategory returns articles whose category equals, contains or is contained
// in category, ignoring case. Drafts are included.
func (s *ArticleService) ByCategory(ctx context.Context, category string) ([]news.Article, error) {
	c := strings.TrimSpace(category)
	if c == "" {
		return nil, &news.ValidationError{Field: "category", Message: "category is required"}
	}
	return s.filter(ctx, s.query(ctx).Where("category <> ''"), func(a news.Article) bool {
		return news.MatchCategory(a.Category, c)
	})
}

// ByAuthor returns every article of an author, drafts included.
func (s *ArticleService) ByAuthor(ctx context.Context, authorID string) ([]news.Article, error) {
	return s.find(ctx, s.query(ctx).Where("author_id = ?", authorID))
}

// Search returns published articles matching query in title, content or
// excerpt and carrying a tag that contains tag. Empty criteria are ignored,
// but at least one must be set. Matching folds case in Go because SQLite
// LOWER only folds ASCII.
func (s *ArticleService) Search(ctx context.Context, query, tag string) ([]news.Article, error) {
	query = strings.TrimSpace(query)
	tag = strings.TrimSpace(tag)
	if query == "" && tag == "" {
		return []news.Article{}, nil
	}
	return s.filter(ctx, s.query(ctx).Where("is_draft = ?", false), func(a news.Article) bool {
		if query != "" && !a.Matches(query) {
			return false
		}
		return tag == "" || a.HasTag(tag)
	})
}

// Create validates, sanitizes and stores a new article. A missing slug is
// derived from the title and a published article without a date is stamped now.
func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (news.Article, error) {
	a := in.Article
	a.Title = strings.TrimSpace(a.Title)
	a.AuthorID = strings.TrimSpace(a.AuthorID)
	if err := news.ValidateArticle(a); err != nil {
		return news.Article{}, err
	}
	if err := s.ensureAuthor(ctx, a.AuthorID); err != nil {
		return news.Article{}, err
	}

	a.Slug = strings.TrimSpace(a.Slug)
	if a.Slug == "" {
		a.Slug = news.Slugify(a.Title)
	}
	a.Tags = news.NormalizeTags(a.Tags)

	content, err := s.content.Render(in.ContentFormat, a.Content)
	if err != nil {
		return news.Article{}, err
	}
	a.Content = content

	if !a.IsDraft && a.PublishedAt == nil {
		now := s.now()
		a.PublishedAt = &now
	}

	var model db.Article
	copyToModel(a, &model)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return news.Article{}, fmt.Errorf("slug %q: %w", a.Slug, news.ErrConflict)
		}
		return news.Article{}, err
	}
	return s.Get(ctx, model.ID)
}

// Update merges the present fields of upd into the stored article.
// Publishing a draft without a date stamps it now; turning an article back
// into a draft without an explicit date clears its publication date.
func (s *ArticleService) Update(ctx context.Context, id string, upd news.ArticleUpdate, format string) (news.Article, error) {
	if err := upd.Validate(); err != nil {
		return news.Article{}, err
	}

	var model db.Article
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return news.Article{}, notFound(err, "article "+id)
	}

	current := articleFromModel(model, 0)
	if upd.AuthorID != nil && strings.TrimSpace(*upd.AuthorID) != current.AuthorID {
		if err := s.ensureAuthor(ctx, strings.TrimSpace(*upd.AuthorID)); err != nil {
			return news.Article{}, err
		}
	}

	wasDraft := current.IsDraft
	upd.Apply(&current)
	current.Slug = strings.TrimSpace(current.Slug)
	current.Title = strings.TrimSpace(current.Title)
	current.AuthorID = strings.TrimSpace(current.AuthorID)

	if upd.Content != nil {
		content, err := s.content.Render(format, current.Content)
		if err != nil {
			return news.Article{}, err
		}
		current.Content = content
	}

	switch {
	case wasDraft && !current.IsDraft && current.PublishedAt == nil:
		now := s.now()
		current.PublishedAt = &now
	case !wasDraft && current.IsDraft && upd.PublishedAt == nil:
		current.PublishedAt = nil
	}

	copyToModel(current, &model)
	model.Author = nil
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return news.Article{}, fmt.Errorf("slug %q: %w", current.Slug, news.ErrConflict)
		}
		return news.Article{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes an article and its view counters.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&db.Article{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("article %s: %w", id, news.ErrNotFound)
		}
		return s.analytics.Forget(tx, id)
	})
}

func (s *ArticleService) ensureAuthor(ctx context.Context, authorID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Author{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &news.ValidationError{Field: "authorId", Message: "unknown author " + authorID}
	}
	return nil
}

func (s *ArticleService) first(ctx context.Context, where string, arg string) (news.Article, error) {
	var model db.Article
	if err := s.db.WithContext(ctx).Preload("Author").Where(where, arg).First(&model).Error; err != nil {
		return news.Article{}, notFound(err, "article "+arg)
	}
	views, err := s.analytics.ViewCount(ctx, model.ID)
	if err != nil {
		return news.Article{}, err
	}
	return articleFromModel(model, views), nil
}

func (s *ArticleService) find(ctx context.Context, q *gorm.DB) ([]news.Article, error) {
	var models []db.Article
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}
	views, err := s.analytics.ViewCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	articles := make([]news.Article, len(models))
	for i := range models {
		articles[i] = articleFromModel(models[i], views[models[i].ID])
	}
	return articles, nil
}

// filter loads the rows of q, keeps those accepted by keep and only then
// looks up their view counts.
func (s *ArticleService) filter(ctx context.Context, q *gorm.DB, keep func(news.Article) bool) ([]news.Article, error) {
	var models []db.Article
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	articles := make([]news.Article, 0, len(models))
	ids := make([]string, 0, len(models))
	for _, m := range models {
		a := articleFromModel(m, 0)
		if keep(a) {
			articles = append(articles, a)
			ids = append(ids, m.ID)
		}
	}
	views, err := s.analytics.ViewCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].Views = views[articles[i].ID]
	}
	return articles, nil
}
