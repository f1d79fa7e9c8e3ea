package aggregator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newsportal/internal/news"
	"golang.org/x/sync/errgroup"
)

// Stats is the dashboard summary. RecentViews sums the view counters of
// every article.
type Stats struct {
	TotalArticles         int   `json:"totalArticles"`
	PublishedArticles     int   `json:"publishedArticles"`
	DraftArticles         int   `json:"draftArticles"`
	DistinctCategoryCount int   `json:"distinctCategoryCount"`
	RecentViews           int64 `json:"recentViews"`
}

// Stats counts the whole collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	articles, err := s.store.FetchAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}

	stats := Stats{TotalArticles: len(articles)}
	for _, a := range articles {
		if a.IsDraft {
			stats.DraftArticles++
		} else {
			stats.PublishedArticles++
		}
		stats.RecentViews += a.Views
	}
	stats.DistinctCategoryCount = len(categories(articles))
	return stats, nil
}

// ArticlePage is the read-model of a single article permalink.
type ArticlePage struct {
	Article news.Article   `json:"article"`
	Related []news.Article `json:"related"`
	Views   int64          `json:"viewCount"`
}

// ArticlePage loads a public article by slug, records the visit and lists
// related articles. Drafts are reported as news.ErrNotFound. Telemetry
// failures only cost the view count.
func (s *Service) ArticlePage(ctx context.Context, slug string, visit news.Visit) (ArticlePage, error) {
	article, err := s.store.FetchBySlug(ctx, slug)
	if err != nil {
		return ArticlePage{}, fmt.Errorf("article %q: %w", slug, err)
	}
	if !article.Public() {
		return ArticlePage{}, fmt.Errorf("article %q: %w", slug, news.ErrNotFound)
	}

	related, err := s.Related(ctx, article.ID, article.Category, DefaultRelatedLimit)
	if err != nil {
		return ArticlePage{}, err
	}

	views := article.Views
	if s.telemetry != nil {
		views = s.telemetry.TrackVisit(ctx, article.ID, visit)
		if views == 0 {
			views = s.telemetry.ArticleViews(ctx, article.ID)
		}
	}
	article.Views = views

	return ArticlePage{Article: article, Related: related, Views: views}, nil
}

// Home is the front page read-model.
type Home struct {
	Featured   []news.Article `json:"featured"`
	Latest     []news.Article `json:"latest"`
	Categories []string       `json:"categories"`
}

// Home loads the featured, latest and category views concurrently. Any
// failure fails the whole page.
func (s *Service) Home(ctx context.Context, limit int) (Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		featured, err := s.Featured(gctx)
		home.Featured = featured
		return err
	})
	g.Go(func() error {
		latest, err := s.Latest(gctx, limit)
		home.Latest = latest
		return err
	})
	g.Go(func() error {
		cats, err := s.Categories(gctx)
		home.Categories = cats
		return err
	})

	if err := g.Wait(); err != nil {
		return Home{}, err
	}
	return home, nil
}

// FilterOptions narrows a category or search listing. Zero fields are
// ignored. Author matches the author's id or, ignoring case, name.
type FilterOptions struct {
	Category string
	Author   string
	Since    time.Time
}

// Filter applies opts to articles without reordering them. With Since set,
// articles lacking a publication date are dropped.
func Filter(articles []news.Article, opts FilterOptions) []news.Article {
	author := strings.TrimSpace(opts.Author)
	return filter(articles, func(a news.Article) bool {
		if opts.Category != "" && a.Category != opts.Category {
			return false
		}
		if author != "" && a.AuthorID != author && (a.Author == nil || !strings.EqualFold(a.Author.Name, author)) {
			return false
		}
		if !opts.Since.IsZero() && (a.PublishedAt == nil || a.PublishedAt.Before(opts.Since)) {
			return false
		}
		return true
	})
}

// DateRange turns a date filter name into its lower bound relative to now:
// "today" is midnight, "week" seven days back, "month" and "year" one
// calendar month or year back. Unknown names report false.
func DateRange(name string, now time.Time) (time.Time, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	case "year":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}
