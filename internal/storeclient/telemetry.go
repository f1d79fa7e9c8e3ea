package storeclient

import (
	"context"
	"net/http"

	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/news"
)

type viewCount struct {
	ViewCount int64 `json:"viewCount"`
}

// TrackView records an anonymous view. It is best effort: failures are
// logged and reported as zero views.
func (c *Client) TrackView(ctx context.Context, articleID, userAgent string) int64 {
	return c.TrackVisit(ctx, articleID, news.Visit{UserAgent: userAgent})
}

// TrackVisit records a view attributed to a visitor id and returns the
// updated count, or zero when the call fails.
func (c *Client) TrackVisit(ctx context.Context, articleID string, v news.Visit) int64 {
	var out viewCount
	if err := c.call(ctx, "track view", http.MethodPost, "/articles/"+articleID+"/view", nil, v, &out); err != nil {
		logger.WarnWithFields("view tracking failed", logger.Fields{
			"article_id": articleID,
			"error":      err.Error(),
		})
		return 0
	}
	return out.ViewCount
}

// ArticleViews returns the view count of an article, or zero when the call fails.
func (c *Client) ArticleViews(ctx context.Context, articleID string) int64 {
	var out viewCount
	if err := c.call(ctx, "fetch article views", http.MethodGet, "/articles/"+articleID+"/views", nil, nil, &out); err != nil {
		logger.WarnWithFields("view count lookup failed", logger.Fields{
			"article_id": articleID,
			"error":      err.Error(),
		})
		return 0
	}
	return out.ViewCount
}
