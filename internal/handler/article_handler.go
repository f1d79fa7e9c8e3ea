package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/newsportal/internal/news"
	"github.com/newsportal/internal/service"
)

type articleRequest struct {
	news.Article
	ContentFormat string `json:"contentFormat"`
}

type articleUpdateRequest struct {
	news.ArticleUpdate
	ContentFormat string `json:"contentFormat"`
}

// ListArticles returns every article. With size set the result is paged.
func (a *API) ListArticles(c *gin.Context) {
	page := parseIntQuery(c, "page", 0)
	size := parseIntQuery(c, "size", 0)

	list, err := a.articles.List(c.Request.Context(), page, size)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content":       list.Articles,
		"totalElements": list.Total,
		"page":          list.Page,
		"size":          list.Size,
	})
}

// GetArticle returns one article by id.
func (a *API) GetArticle(c *gin.Context) {
	article, err := a.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// GetArticleBySlug returns one article by slug.
func (a *API) GetArticleBySlug(c *gin.Context) {
	article, err := a.articles.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// FeaturedArticles returns featured, published articles as a bare array.
func (a *API) FeaturedArticles(c *gin.Context) {
	articles, err := a.articles.Featured(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

// ArticlesByCategory matches the catch-all category path, so slugs such as
// tech/ai work.
func (a *API) ArticlesByCategory(c *gin.Context) {
	category := strings.Trim(c.Param("category"), "/")
	articles, err := a.articles.ByCategory(c.Request.Context(), category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(articles))
}

func (a *API) ArticlesByAuthor(c *gin.Context) {
	articles, err := a.articles.ByAuthor(c.Request.Context(), c.Param("authorId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(articles))
}

func (a *API) SearchArticles(c *gin.Context) {
	articles, err := a.articles.Search(c.Request.Context(), c.Query("q"), c.Query("tag"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(articles))
}

// CreateArticle stores a new article and answers 201.
func (a *API) CreateArticle(c *gin.Context) {
	var req articleRequest
	if !bindJSON(c, &req, "invalid article payload") {
		return
	}

	article, err := a.articles.Create(c.Request.Context(), service.ArticleInput{
		Article:       req.Article,
		ContentFormat: req.ContentFormat,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// UpdateArticle merges the submitted fields into the stored article.
func (a *API) UpdateArticle(c *gin.Context) {
	var req articleUpdateRequest
	if !bindJSON(c, &req, "invalid article payload") {
		return
	}

	article, err := a.articles.Update(c.Request.Context(), c.Param("id"), req.ArticleUpdate, req.ContentFormat)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (a *API) DeleteArticle(c *gin.Context) {
	if err := a.articles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordView counts a visit. Without a visitorId in the body the visitor is
// derived from the client address and user agent.
func (a *API) RecordView(c *gin.Context) {
	var visit news.Visit
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &visit, "invalid view payload") {
			return
		}
	}
	if strings.TrimSpace(visit.UserAgent) == "" {
		visit.UserAgent = c.Request.UserAgent()
	}
	visitorID := strings.TrimSpace(visit.VisitorID)
	if visitorID == "" {
		visitorID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(c.ClientIP()+"|"+visit.UserAgent)).String()
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := a.articles.Get(ctx, id); err != nil {
		respondServiceError(c, err)
		return
	}

	stats, err := a.analytics.RecordView(ctx, id, visitorID, visit.UserAgent, time.Now().UTC())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewCount": stats.PageViews})
}

// ArticleViews returns the view counter of one article.
func (a *API) ArticleViews(c *gin.Context) {
	views, err := a.analytics.ViewCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewCount": views})
}
