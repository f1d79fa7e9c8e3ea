package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/news"
)

const maxSlugRetries = 3

type articlePayload struct {
	news.Article
	ContentFormat string `json:"contentFormat,omitempty"`
}

type articleUpdatePayload struct {
	news.ArticleUpdate
	ContentFormat string `json:"contentFormat,omitempty"`
}

// FetchAll returns every article, drafts included.
func (c *Client) FetchAll(ctx context.Context) ([]news.Article, error) {
	return c.list(ctx, "fetch articles", "/articles", nil)
}

// FetchByID returns one article.
func (c *Client) FetchByID(ctx context.Context, id string) (news.Article, error) {
	var a news.Article
	if err := c.call(ctx, "fetch article", http.MethodGet, "/articles/"+id, nil, nil, &a); err != nil {
		return news.Article{}, err
	}
	return a, nil
}

// FetchBySlug returns the article with slug. A 404 or an empty list result
// is news.ErrNotFound.
func (c *Client) FetchBySlug(ctx context.Context, slug string) (news.Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return news.Article{}, fmt.Errorf("article slug is empty: %w", news.ErrNotFound)
	}

	var raw json.RawMessage
	if err := c.call(ctx, "fetch article by slug", http.MethodGet, "/articles/slug/"+slug, nil, nil, &raw); err != nil {
		return news.Article{}, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '[' || isEnvelope(trimmed)) {
		articles, err := decodeList[news.Article](trimmed)
		if err != nil {
			return news.Article{}, err
		}
		if len(articles) == 0 {
			return news.Article{}, fmt.Errorf("article slug %q: %w", slug, news.ErrNotFound)
		}
		return articles[0], nil
	}

	var a news.Article
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return news.Article{}, fmt.Errorf("fetch article by slug: decode: %w", err)
	}
	if a.ID == "" {
		return news.Article{}, fmt.Errorf("article slug %q: %w", slug, news.ErrNotFound)
	}
	return a, nil
}

// FetchFeatured returns the store's featured articles.
func (c *Client) FetchFeatured(ctx context.Context) ([]news.Article, error) {
	return c.list(ctx, "fetch featured articles", "/articles/featured", nil)
}

// FetchByCategory returns the articles the store files under category.
func (c *Client) FetchByCategory(ctx context.Context, category string) ([]news.Article, error) {
	return c.list(ctx, "fetch articles by category", "/articles/category/"+strings.Trim(category, "/"), nil)
}

// FetchByAuthor returns every article of an author, drafts included.
func (c *Client) FetchByAuthor(ctx context.Context, authorID string) ([]news.Article, error) {
	return c.list(ctx, "fetch articles by author", "/articles/author/"+authorID, nil)
}

// Search asks the store for published articles matching query and tag.
func (c *Client) Search(ctx context.Context, query, tag string) ([]news.Article, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	if tag != "" {
		q.Set("tag", tag)
	}
	return c.list(ctx, "search articles", "/articles/search", q)
}

// Create submits a new article written in html.
func (c *Client) Create(ctx context.Context, a news.Article) (news.Article, error) {
	return c.CreateFormatted(ctx, a, "")
}

// CreateFormatted submits a new article whose content is in format ("html"
// or "markdown"). A missing slug is derived from the title; when the store
// reports a slug conflict the slug is suffixed and the call retried.
func (c *Client) CreateFormatted(ctx context.Context, a news.Article, format string) (news.Article, error) {
	if err := news.ValidateArticle(a); err != nil {
		return news.Article{}, err
	}
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = news.Slugify(a.Title)
	}
	a.Tags = news.NormalizeTags(a.Tags)
	a.Author = nil

	var err error
	for attempt := 0; attempt <= maxSlugRetries; attempt++ {
		var created news.Article
		err = c.call(ctx, "create article", http.MethodPost, "/articles", nil, articlePayload{Article: a, ContentFormat: format}, &created)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, news.ErrConflict) || attempt == maxSlugRetries {
			break
		}
		previous := a.Slug
		a.Slug = news.SlugWithSuffix(a.Title)
		logger.InfoWithFields("slug taken, retrying with suffix", logger.Fields{
			"slug":    previous,
			"next":    a.Slug,
			"attempt": attempt + 1,
		})
	}
	return news.Article{}, err
}

// Update sends the present fields of upd; the store merges them.
func (c *Client) Update(ctx context.Context, id string, upd news.ArticleUpdate) (news.Article, error) {
	return c.UpdateFormatted(ctx, id, upd, "")
}

// UpdateFormatted is Update with the content format of upd.Content.
func (c *Client) UpdateFormatted(ctx context.Context, id string, upd news.ArticleUpdate, format string) (news.Article, error) {
	if err := upd.Validate(); err != nil {
		return news.Article{}, err
	}
	if upd.Tags != nil {
		tags := news.NormalizeTags(*upd.Tags)
		upd.Tags = &tags
	}

	var updated news.Article
	if err := c.call(ctx, "update article", http.MethodPut, "/articles/"+id, nil, articleUpdatePayload{ArticleUpdate: upd, ContentFormat: format}, &updated); err != nil {
		return news.Article{}, err
	}
	return updated, nil
}

// Delete removes an article. A missing id is news.ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, "delete article", http.MethodDelete, "/articles/"+id, nil, nil, nil)
}
