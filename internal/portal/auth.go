package portal

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/news"
)

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// login asks the gateway and marks the session on success.
func (p *Portal) login(c *gin.Context) {
	var creds news.Credentials
	if !bindJSON(c, &creds) {
		return
	}
	creds.Email = strings.TrimSpace(creds.Email)

	user, err := p.backend.Login(c.Request.Context(), creds)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := saveUser(c, user); err != nil {
		respondErr(c, err)
		return
	}
	logger.InfoWithFields("user logged in", logger.Fields{"user_id": user.ID})
	c.JSON(http.StatusOK, user)
}

func (p *Portal) logout(c *gin.Context) {
	if err := clearUser(c); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// register creates the account and logs it in.
func (p *Portal) register(c *gin.Context) {
	var reg news.Registration
	if !bindJSON(c, &reg) {
		return
	}

	user, err := p.backend.Register(c.Request.Context(), reg)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := saveUser(c, user); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

const forgotPasswordMessage = "if the account exists, reset instructions have been sent"

// forgotPassword answers with one fixed message so the reply never tells
// whether the email has an account.
func (p *Portal) forgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if _, err := p.backend.ForgotPassword(c.Request.Context(), strings.TrimSpace(req.Email)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func (p *Portal) resetPassword(c *gin.Context) {
	var req news.PasswordReset
	if !bindJSON(c, &req) {
		return
	}
	if err := p.backend.ResetPassword(c.Request.Context(), req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
