package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadImage stores the multipart field "image" and returns its public URL.
func (a *API) UploadImage(c *gin.Context) {
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

	url, err := a.uploads.Save(file.Filename, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
