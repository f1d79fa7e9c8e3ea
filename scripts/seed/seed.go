package main

import (
	"context"
	"fmt"
	"time"

	"github.com/newsportal/internal/news"
	"github.com/newsportal/internal/service"
	"gorm.io/gorm"
)

const (
	demoAdminEmail    = "admin@example.com"
	demoAdminPassword = "admin12345"
)

type demoArticle struct {
	title    string
	excerpt  string
	content  string
	category string
	tags     []string
	author   int
	featured bool
	draft    bool
	age      time.Duration
}

var demoAuthors = []news.Author{
	{Name: "Ana Souza", Email: "ana@example.com", Bio: "Covers technology and science."},
	{Name: "Bruno Lima", Email: "bruno@example.com", Bio: "Sports desk."},
	{Name: "Carla Dias", Email: "carla@example.com", Bio: "Economy and world affairs."},
}

var demoArticles = []demoArticle{
	{
		title:    "Open models close the gap",
		excerpt:  "Community models now rival commercial ones on common benchmarks.",
		content:  "## Benchmarks\n\nThe latest results show **open weights** keeping pace.",
		category: "tech/ai",
		tags:     []string{"ai", "open source"},
		featured: true,
		age:      2 * time.Hour,
	},
	{
		title:    "Go 1.24 ships generic type aliases",
		excerpt:  "The release also speeds up maps.",
		content:  "Generic type aliases are now fully supported.\n\n- Swiss-table maps\n- `os.Root`",
		category: "tech",
		tags:     []string{"go", "release"},
		age:      26 * time.Hour,
	},
	{
		title:    "Derby ends in a late draw",
		excerpt:  "An equaliser in stoppage time kept the table unchanged.",
		content:  "Both sides had chances before the **94th-minute** goal.",
		category: "sport",
		tags:     []string{"football"},
		author:   1,
		featured: true,
		age:      3 * 24 * time.Hour,
	},
	{
		title:    "Central bank holds rates",
		excerpt:  "Inflation is easing but remains above target.",
		content:  "The committee voted to keep the base rate unchanged.",
		category: "economy",
		tags:     []string{"rates", "inflation"},
		author:   2,
		age:      10 * 24 * time.Hour,
	},
	{
		title:    "Draft: transfer window preview",
		excerpt:  "Who is moving where.",
		content:  "Notes to be expanded before publishing.",
		category: "sport",
		tags:     []string{"football", "transfers"},
		author:   1,
		draft:    true,
	},
}

// seedDemoData creates the demo authors and articles unless articles exist
// already. It returns the number of articles created.
func seedDemoData(ctx context.Context, gdb *gorm.DB) (int, error) {
	analytics := service.NewAnalyticsService(gdb)
	articles := service.NewArticleService(gdb, service.NewContentPolicy(), analytics)
	authors := service.NewAuthorService(gdb)

	existing, err := articles.List(ctx, 0, 1)
	if err != nil {
		return 0, err
	}
	if existing.Total > 0 {
		return 0, nil
	}

	created := make([]news.Author, 0, len(demoAuthors))
	for _, a := range demoAuthors {
		author, err := authors.Create(ctx, a)
		if err != nil {
			return 0, fmt.Errorf("create author %s: %w", a.Name, err)
		}
		created = append(created, author)
	}

	now := time.Now().UTC()
	for i, d := range demoArticles {
		a := news.Article{
			Title:    d.title,
			Excerpt:  d.excerpt,
			Content:  d.content,
			Category: d.category,
			Tags:     d.tags,
			AuthorID: created[d.author].ID,
			Featured: d.featured,
			IsDraft:  d.draft,
		}
		if !d.draft {
			published := now.Add(-d.age)
			a.PublishedAt = &published
		}
		if _, err := articles.Create(ctx, service.ArticleInput{Article: a, ContentFormat: service.FormatMarkdown}); err != nil {
			return i, fmt.Errorf("create article %q: %w", d.title, err)
		}
	}
	return len(demoArticles), nil
}
