package portal

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/aggregator"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/news"
)

// articleForm is what the editor submits. IsDraft decides whether saving
// publishes the article.
type articleForm struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle"`
	Excerpt        string   `json:"excerpt"`
	Content        string   `json:"content"`
	ContentFormat  string   `json:"contentFormat"`
	ImageURL       string   `json:"imageUrl"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	AuthorID       string   `json:"authorId"`
	Featured       bool     `json:"featured"`
	IsDraft        bool     `json:"isDraft"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	SEOImage       string   `json:"seoImage"`
}

func (f articleForm) article(now time.Time) news.Article {
	a := news.Article{
		Slug:           f.Slug,
		Title:          f.Title,
		Subtitle:       f.Subtitle,
		Excerpt:        f.Excerpt,
		Content:        f.Content,
		ImageURL:       f.ImageURL,
		Category:       f.Category,
		Tags:           f.Tags,
		AuthorID:       f.AuthorID,
		Featured:       f.Featured,
		IsDraft:        f.IsDraft,
		SEOTitle:       f.SEOTitle,
		SEODescription: f.SEODescription,
		SEOImage:       f.SEOImage,
	}
	if !f.IsDraft {
		published := now.UTC()
		a.PublishedAt = &published
	}
	return a
}

type articleUpdateForm struct {
	news.ArticleUpdate
	ContentFormat string `json:"contentFormat"`
}

func (p *Portal) adminArticles(c *gin.Context) {
	articles, err := p.news.All(c.Request.Context(), aggregator.Management)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (p *Portal) adminStats(c *gin.Context) {
	stats, err := p.news.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (p *Portal) adminAuthorArticles(c *gin.Context) {
	vis := aggregator.Public
	if include, _ := strconv.ParseBool(c.Query("includeDrafts")); include {
		vis = aggregator.Management
	}
	p.listByAuthor(c, vis)
}

// createArticle saves the editor form. A draft keeps no publication date;
// publishing stamps the current time.
func (p *Portal) createArticle(c *gin.Context) {
	var form articleForm
	if !bindJSON(c, &form) {
		return
	}

	created, err := p.backend.CreateFormatted(c.Request.Context(), form.article(p.now()), form.ContentFormat)
	if err != nil {
		respondErr(c, err)
		return
	}
	user, _ := currentUser(c)
	logger.InfoWithFields("article saved", logger.Fields{
		"id":      created.ID,
		"slug":    created.Slug,
		"draft":   created.IsDraft,
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, created)
}

// updateArticle merges the submitted fields. Publishing a draft without an
// explicit date stamps the current time.
func (p *Portal) updateArticle(c *gin.Context) {
	var form articleUpdateForm
	if !bindJSON(c, &form) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	upd := form.ArticleUpdate

	if upd.IsDraft != nil && !*upd.IsDraft && upd.PublishedAt == nil {
		current, err := p.backend.FetchByID(ctx, id)
		if err != nil {
			respondErr(c, err)
			return
		}
		if current.IsDraft || current.PublishedAt == nil {
			published := p.now().UTC()
			upd.PublishedAt = &published
		}
	}

	updated, err := p.backend.UpdateFormatted(ctx, id, upd, form.ContentFormat)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (p *Portal) deleteArticle(c *gin.Context) {
	if err := p.backend.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// upload forwards the multipart field "image" to the store.
func (p *Portal) upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing image upload")
		return
	}
	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable image upload")
		return
	}
	defer src.Close()

	url, err := p.backend.UploadImage(c.Request.Context(), file.Filename, src)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
