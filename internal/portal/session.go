package portal

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/newsportal/internal/middleware"
	"github.com/newsportal/internal/news"
)

const (
	visitorCookieName   = "np_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60

	sessionUserName  = "user_name"
	sessionUserEmail = "user_email"
	sessionUserRole  = "user_role"
	sessionTerms     = "terms_accepted"

	termsVersion = "1"
)

// ensureVisitorID returns the visitor cookie, issuing one on first visit.
func (p *Portal) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.secure || c.Request.TLS != nil,
		MaxAge:   visitorCookieMaxAge,
		Expires:  p.now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
	return visitorID
}

func (p *Portal) visit(c *gin.Context) news.Visit {
	return news.Visit{
		VisitorID: p.ensureVisitorID(c),
		UserAgent: c.Request.UserAgent(),
	}
}

func saveUser(c *gin.Context, u news.User) error {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, u.ID)
	session.Set(sessionUserName, u.Name)
	session.Set(sessionUserEmail, u.Email)
	session.Set(sessionUserRole, u.Role)
	return session.Save()
}

// clearUser forgets the logged-in user. The terms flag outlives logout.
func clearUser(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(middleware.SessionUserKey)
	session.Delete(sessionUserName)
	session.Delete(sessionUserEmail)
	session.Delete(sessionUserRole)
	return session.Save()
}

func currentUser(c *gin.Context) (news.User, bool) {
	session := sessions.Default(c)
	id, _ := session.Get(middleware.SessionUserKey).(string)
	if id == "" {
		return news.User{}, false
	}
	name, _ := session.Get(sessionUserName).(string)
	email, _ := session.Get(sessionUserEmail).(string)
	role, _ := session.Get(sessionUserRole).(string)
	return news.User{ID: id, Name: name, Email: email, Role: role}, true
}

func (p *Portal) me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "not logged in")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (p *Portal) terms(c *gin.Context) {
	accepted, _ := sessions.Default(c).Get(sessionTerms).(bool)
	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "version": termsVersion})
}

func (p *Portal) acceptTerms(c *gin.Context) {
	session := sessions.Default(c)
	session.Set(sessionTerms, true)
	if err := session.Save(); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": true, "version": termsVersion})
}
