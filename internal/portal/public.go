package portal

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/aggregator"
)

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if err != nil {
		return 0
	}
	return limit
}

// filterOptions reads the author and date filters shared by the category and
// search pages. "all" or an empty date means no lower bound.
func (p *Portal) filterOptions(c *gin.Context) (aggregator.FilterOptions, bool) {
	opts := aggregator.FilterOptions{
		Category: strings.TrimSpace(c.Query("category")),
		Author:   strings.TrimSpace(c.Query("author")),
	}
	date := strings.TrimSpace(c.Query("date"))
	if date == "" || strings.EqualFold(date, "all") {
		return opts, true
	}
	since, ok := aggregator.DateRange(date, p.now())
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown date range "+date)
		return opts, false
	}
	opts.Since = since
	return opts, true
}

func (p *Portal) home(c *gin.Context) {
	home, err := p.news.Home(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

func (p *Portal) featured(c *gin.Context) {
	articles, err := p.news.Featured(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (p *Portal) latest(c *gin.Context) {
	articles, err := p.news.Latest(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (p *Portal) categories(c *gin.Context) {
	cats, err := p.news.Categories(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// category lists a category page. The author and date filters apply before
// the limit so a filtered page is still full.
func (p *Portal) category(c *gin.Context) {
	category := strings.Trim(c.Param("category"), "/")
	if category == "" {
		respondError(c, http.StatusBadRequest, "category is required")
		return
	}
	opts, ok := p.filterOptions(c)
	if !ok {
		return
	}
	opts.Category = ""

	articles, err := p.news.ByCategory(c.Request.Context(), category, math.MaxInt)
	if err != nil {
		respondErr(c, err)
		return
	}
	articles = aggregator.Filter(articles, opts)

	limit := queryLimit(c)
	if limit <= 0 {
		limit = aggregator.DefaultCategoryLimit
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "articles": articles})
}

func (p *Portal) article(c *gin.Context) {
	page, err := p.news.ArticlePage(c.Request.Context(), c.Param("slug"), p.visit(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (p *Portal) search(c *gin.Context) {
	opts, ok := p.filterOptions(c)
	if !ok {
		return
	}
	query, tag := c.Query("q"), c.Query("tag")

	articles, err := p.news.Search(c.Request.Context(), query, tag)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":    query,
		"tag":      tag,
		"articles": aggregator.Filter(articles, opts),
	})
}

func (p *Portal) authors(c *gin.Context) {
	authors, err := p.news.Authors(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

// authorNames feeds the author filter drop-down.
func (p *Portal) authorNames(c *gin.Context) {
	names, err := p.news.AuthorNames(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (p *Portal) authorArticles(c *gin.Context) {
	p.listByAuthor(c, aggregator.Public)
}

func (p *Portal) listByAuthor(c *gin.Context, vis aggregator.Visibility) {
	articles, err := p.news.ByAuthor(c.Request.Context(), c.Param("id"), vis)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}
