package news

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const fallbackSlug = "new-article"

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a title.
func Slugify(title string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// SlugWithSuffix is Slugify plus a short random suffix, used after a slug collision.
func SlugWithSuffix(title string) string {
	return Slugify(title) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
