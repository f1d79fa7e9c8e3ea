package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/news"
)

func (a *API) ListAuthors(c *gin.Context) {
	authors, err := a.authors.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (a *API) GetAuthor(c *gin.Context) {
	author, err := a.authors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (a *API) CreateAuthor(c *gin.Context) {
	var req news.Author
	if !bindJSON(c, &req, "invalid author payload") {
		return
	}
	author, err := a.authors.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (a *API) UpdateAuthor(c *gin.Context) {
	var req news.AuthorUpdate
	if !bindJSON(c, &req, "invalid author payload") {
		return
	}
	author, err := a.authors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

// DeleteAuthor answers 409 while the author still owns articles.
func (a *API) DeleteAuthor(c *gin.Context) {
	if err := a.authors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
