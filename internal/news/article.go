package news

import (
	"sort"
	"strings"
	"time"
)

// Author is the writer an Article points at through AuthorID.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl"`
}

// Article is a single news item as exchanged with the collection endpoint.
type Article struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Subtitle       string     `json:"subtitle,omitempty"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags,omitempty"`
	AuthorID       string     `json:"authorId"`
	Author         *Author    `json:"author,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Featured       bool       `json:"featured"`
	IsDraft        bool       `json:"isDraft"`
	SEOTitle       string     `json:"seoTitle,omitempty"`
	SEODescription string     `json:"seoDescription,omitempty"`
	SEOImage       string     `json:"seoImage,omitempty"`
	Views          int64      `json:"viewCount"`
}

// Public reports whether the article may appear in public read-models.
func (a Article) Public() bool {
	return !a.IsDraft
}

// HasTag reports whether any tag contains needle, ignoring case.
func (a Article) HasTag(needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return false
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Matches reports whether title, content or excerpt contains query, ignoring case.
func (a Article) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(a.Title), query) ||
		strings.Contains(strings.ToLower(a.Content), query) ||
		strings.Contains(strings.ToLower(a.Excerpt), query)
}

// MatchCategory is the loose category match used for hierarchical slugs
// such as "tech/ai": equal, or either side contains the other.
func MatchCategory(articleCategory, query string) bool {
	c := strings.ToLower(strings.TrimSpace(articleCategory))
	q := strings.ToLower(strings.TrimSpace(query))
	if c == "" || q == "" {
		return c == q
	}
	return c == q || strings.Contains(c, q) || strings.Contains(q, c)
}

// SortByPublishedDesc orders articles most recent first. Articles without a
// publication date go last; equal timestamps keep their input order.
func SortByPublishedDesc(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		pi, pj := articles[i].PublishedAt, articles[j].PublishedAt
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})
}
