// Package portal is the reader-facing JSON API. Every read goes through the
// aggregator; writes and the auth gateway go straight to the store client.
package portal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/aggregator"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/middleware"
	"github.com/newsportal/internal/news"
	"github.com/newsportal/internal/storeclient"
)

const (
	sessionName    = "np_session"
	sessionMaxAge  = 7 * 24 * 60 * 60
	defaultSecret  = "newsportal-dev-secret"
	maxUploadBytes = 10 << 20
)

// Backend is the write side of the store plus the auth gateway.
type Backend interface {
	FetchByID(ctx context.Context, id string) (news.Article, error)
	CreateFormatted(ctx context.Context, a news.Article, format string) (news.Article, error)
	UpdateFormatted(ctx context.Context, id string, upd news.ArticleUpdate, format string) (news.Article, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)

	Login(ctx context.Context, creds news.Credentials) (news.User, error)
	Register(ctx context.Context, reg news.Registration) (news.User, error)
	ForgotPassword(ctx context.Context, email string) (storeclient.ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, req news.PasswordReset) error
}

// Deps are the collaborators a Portal is built from. Now defaults to
// time.Now and SessionSecret to a development value.
type Deps struct {
	News          *aggregator.Service
	Backend       Backend
	SessionSecret string
	SecureCookies bool
	Now           func() time.Time
}

// Portal serves the portal API.
type Portal struct {
	news    *aggregator.Service
	backend Backend
	secret  string
	secure  bool
	now     func() time.Time
}

// New checks deps and builds a Portal.
func New(deps Deps) (*Portal, error) {
	if deps.News == nil {
		return nil, errors.New("portal: aggregator is required")
	}
	if deps.Backend == nil {
		return nil, errors.New("portal: backend is required")
	}
	p := &Portal{
		news:    deps.News,
		backend: deps.Backend,
		secret:  deps.SessionSecret,
		secure:  deps.SecureCookies,
		now:     deps.Now,
	}
	if p.secret == "" {
		logger.Log.Warn("portal session secret not set, using development secret")
		p.secret = defaultSecret
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Router builds the gin engine for the portal.
func (p *Portal) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery(), middleware.RequestTrace())

	store := cookie.NewStore([]byte(p.secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	{
		api.GET("/home", p.home)
		api.GET("/featured", p.featured)
		api.GET("/latest", p.latest)
		api.GET("/categories", p.categories)
		api.GET("/category/*category", p.category)
		api.GET("/articles/:slug", p.article)
		api.GET("/search", p.search)
		api.GET("/authors", p.authors)
		api.GET("/author-names", p.authorNames)
		api.GET("/authors/:id/articles", p.authorArticles)

		api.POST("/login", p.login)
		api.POST("/logout", p.logout)
		api.POST("/register", p.register)
		api.POST("/forgot-password", p.forgotPassword)
		api.POST("/reset-password", p.resetPassword)
		api.GET("/me", p.me)

		api.GET("/terms", p.terms)
		api.POST("/terms/accept", p.acceptTerms)

		admin := api.Group("/admin", middleware.AuthRequired())
		admin.GET("/articles", p.adminArticles)
		admin.GET("/stats", p.adminStats)
		admin.GET("/authors/:id/articles", p.adminAuthorArticles)
		admin.POST("/articles", p.createArticle)
		admin.PUT("/articles/:id", p.updateArticle)
		admin.DELETE("/articles/:id", p.deleteArticle)
		admin.POST("/upload", p.upload)
	}

	return r
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondErr maps store and gateway failures onto portal responses. A store
// that answered with anything but 404/409 surfaces as 502.
func respondErr(c *gin.Context, err error) {
	var verr *news.ValidationError
	var aerr *news.AuthError
	var rerr *news.RemoteError
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
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, news.ErrConflict):
		respondError(c, http.StatusConflict, "conflict")
	case errors.As(err, &rerr):
		logger.ErrorWithFields("store call failed", logger.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		respondError(c, http.StatusBadGateway, "news store unavailable")
	default:
		logger.ErrorWithFields("request failed", logger.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
