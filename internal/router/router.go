package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/handler"
	"github.com/newsportal/internal/middleware"
	"github.com/rs/cors"
)

// Config carries the router settings that come from the app config.
type Config struct {
	UploadDir     string
	UploadURLPath string
}

// SetupRouter wires the collection endpoint under /api.
func SetupRouter(api *handler.API, cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	if cfg.UploadDir != "" && cfg.UploadURLPath != "" {
		r.Static("/"+strings.Trim(cfg.UploadURLPath, "/"), cfg.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		articles := apiGroup.Group("/articles")
		articles.GET("", api.ListArticles)
		articles.POST("", api.CreateArticle)
		articles.GET("/featured", api.FeaturedArticles)
		articles.GET("/search", api.SearchArticles)
		articles.GET("/slug/:slug", api.GetArticleBySlug)
		articles.GET("/category/*category", api.ArticlesByCategory)
		articles.GET("/author/:authorId", api.ArticlesByAuthor)
		articles.GET("/:id", api.GetArticle)
		articles.PUT("/:id", api.UpdateArticle)
		articles.DELETE("/:id", api.DeleteArticle)
		articles.POST("/:id/view", api.RecordView)
		articles.GET("/:id/views", api.ArticleViews)

		authors := apiGroup.Group("/authors")
		authors.GET("", api.ListAuthors)
		authors.POST("", api.CreateAuthor)
		authors.GET("/:id", api.GetAuthor)
		authors.PUT("/:id", api.UpdateAuthor)
		authors.DELETE("/:id", api.DeleteAuthor)

		apiGroup.POST("/upload", api.UploadImage)

		auth := apiGroup.Group("/auth")
		auth.POST("/login", api.Login)
		auth.POST("/register", api.Register)
		auth.POST("/forgot-password", api.ForgotPassword)
		auth.POST("/reset-password", api.ResetPassword)
	}

	return r
}

// WithCORS lets browser front ends on origins call h.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: !containsWildcard(origins),
	}).Handler(h)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
