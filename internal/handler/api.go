package handler

import (
	"github.com/newsportal/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	articles  *service.ArticleService
	authors   *service.AuthorService
	analytics *service.AnalyticsService
	auth      *service.AuthService
	uploads   *service.UploadService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	analytics := service.NewAnalyticsService(db)

	return &API{
		db:        db,
		articles:  service.NewArticleService(db, service.NewContentPolicy(), analytics),
		authors:   service.NewAuthorService(db),
		analytics: analytics,
		auth:      service.NewAuthService(db),
		uploads:   service.NewUploadService(uploadDir, uploadURL),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// WithResetNotifier routes password reset tokens to n instead of the log.
func (a *API) WithResetNotifier(n service.ResetNotifier) *API {
	a.auth.WithNotifier(n)
	return a
}
