// Package aggregator derives the public and management read-models from the
// article collection held by the store. It keeps no state of its own.
package aggregator

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsportal/internal/news"
)

const (
	DefaultLatestLimit   = 10
	DefaultCategoryLimit = 10
	DefaultRelatedLimit  = 3
)

// Store is the part of the Store Client the read-models are built from.
type Store interface {
	FetchAll(ctx context.Context) ([]news.Article, error)
	FetchBySlug(ctx context.Context, slug string) (news.Article, error)
	FetchFeatured(ctx context.Context) ([]news.Article, error)
	FetchByCategory(ctx context.Context, category string) ([]news.Article, error)
	FetchByAuthor(ctx context.Context, authorID string) ([]news.Article, error)
	FetchAuthors(ctx context.Context) ([]news.Author, error)
}

// Telemetry is the best-effort view counter. Implementations report zero
// instead of failing.
type Telemetry interface {
	TrackVisit(ctx context.Context, articleID string, v news.Visit) int64
	ArticleViews(ctx context.Context, articleID string) int64
}

// Visibility selects whether drafts take part in a read-model.
type Visibility int

const (
	// Public hides drafts.
	Public Visibility = iota
	// Management shows drafts to authenticated back-office views.
	Management
)

func (v Visibility) allows(a news.Article) bool {
	return v == Management || a.Public()
}

// Service builds read-models on top of a Store.
type Service struct {
	store     Store
	telemetry Telemetry
}

// New creates a Service. telemetry may be nil, in which case article pages
// report the view counter carried by the article itself.
func New(store Store, telemetry Telemetry) *Service {
	return &Service{store: store, telemetry: telemetry}
}

// Featured returns featured public articles in store order.
func (s *Service) Featured(ctx context.Context) ([]news.Article, error) {
	articles, err := s.store.FetchFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("featured articles: %w", err)
	}
	return filter(articles, func(a news.Article) bool { return a.Featured && a.Public() }), nil
}

// Latest returns the limit most recently published public articles.
// A limit of zero or less means DefaultLatestLimit.
func (s *Service) Latest(ctx context.Context, limit int) ([]news.Article, error) {
	articles, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest articles: %w", err)
	}
	public := filter(articles, news.Article.Public)
	news.SortByPublishedDesc(public)
	return take(public, limit, DefaultLatestLimit), nil
}

// ByCategory returns public articles whose category loosely matches
// category (see news.MatchCategory), in store order.
func (s *Service) ByCategory(ctx context.Context, category string, limit int) ([]news.Article, error) {
	articles, err := s.store.FetchByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("articles in category %q: %w", category, err)
	}
	matched := filter(articles, func(a news.Article) bool {
		return a.Public() && news.MatchCategory(a.Category, category)
	})
	return take(matched, limit, DefaultCategoryLimit), nil
}

// Related returns public articles of exactly category, other than articleID.
func (s *Service) Related(ctx context.Context, articleID, category string, limit int) ([]news.Article, error) {
	if category == "" {
		return []news.Article{}, nil
	}
	articles, err := s.store.FetchByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("related articles of %s: %w", articleID, err)
	}
	related := filter(articles, func(a news.Article) bool {
		return a.Public() && a.ID != articleID && a.Category == category
	})
	return take(related, limit, DefaultRelatedLimit), nil
}

// ByAuthor returns an author's articles, most recent first. Drafts appear
// only with Management visibility.
func (s *Service) ByAuthor(ctx context.Context, authorID string, vis Visibility) ([]news.Article, error) {
	articles, err := s.store.FetchByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("articles by author %s: %w", authorID, err)
	}
	owned := filter(articles, func(a news.Article) bool {
		return a.AuthorID == authorID && vis.allows(a)
	})
	news.SortByPublishedDesc(owned)
	return owned, nil
}

// Search keeps public articles that have a tag containing tag and whose
// title, content or excerpt contains query. Each criterion applies only
// when set; with neither set the result is empty.
func (s *Service) Search(ctx context.Context, query, tag string) ([]news.Article, error) {
	query = strings.TrimSpace(query)
	tag = strings.TrimSpace(tag)
	if query == "" && tag == "" {
		return []news.Article{}, nil
	}

	articles, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return filter(articles, func(a news.Article) bool {
		if !a.Public() {
			return false
		}
		if tag != "" && !a.HasTag(tag) {
			return false
		}
		return query == "" || a.Matches(query)
	}), nil
}

// Categories returns the distinct non-empty categories of all articles,
// drafts included, in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	articles, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return categories(articles), nil
}

// AuthorNames returns the distinct author names for filter drop-downs.
func (s *Service) AuthorNames(ctx context.Context) ([]string, error) {
	authors, err := s.store.FetchAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("author names: %w", err)
	}
	seen := make(map[string]struct{}, len(authors))
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// Authors returns every author as the store lists them.
func (s *Service) Authors(ctx context.Context) ([]news.Author, error) {
	authors, err := s.store.FetchAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("authors: %w", err)
	}
	return authors, nil
}

// All returns the article listing for vis, most recent first.
func (s *Service) All(ctx context.Context, vis Visibility) ([]news.Article, error) {
	articles, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("all articles: %w", err)
	}
	visible := filter(articles, vis.allows)
	news.SortByPublishedDesc(visible)
	return visible, nil
}

func filter(articles []news.Article, keep func(news.Article) bool) []news.Article {
	out := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func take(articles []news.Article, limit, fallback int) []news.Article {
	if limit <= 0 {
		limit = fallback
	}
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

func categories(articles []news.Article) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, a := range articles {
		if a.Category == "" {
			continue
		}
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		out = append(out, a.Category)
	}
	return out
}
