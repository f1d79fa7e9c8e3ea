package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/news"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// respondServiceError maps the domain error taxonomy onto status codes.
func respondServiceError(c *gin.Context, err error) {
	var verr *news.ValidationError
	var aerr *news.AuthError
	switch {
	case errors.As(err, &aerr):
		status := aerr.StatusCode
		if status == 0 {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": aerr.Error(), "message": aerr.Error()})
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, news.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, news.ErrConflict):
		respondError(c, http.StatusConflict, err.Error())
	default:
		logger.ErrorWithFields("request failed", logger.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func listResponse(items any) gin.H {
	return gin.H{"content": items}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
