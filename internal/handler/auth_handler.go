package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/news"
)

const forgotPasswordMessage = "if the account exists, reset instructions have been sent"

func (a *API) Login(c *gin.Context) {
	var req news.Credentials
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	user, err := a.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *API) Register(c *gin.Context) {
	var req news.Registration
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	user, err := a.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ForgotPassword issues a reset token through the auth service's notifier.
// The answer is the same whether or not the account exists.
func (a *API) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req, "invalid forgot-password payload") {
		return
	}
	if err := a.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func (a *API) ResetPassword(c *gin.Context) {
	var req news.PasswordReset
	if !bindJSON(c, &req, "invalid reset-password payload") {
		return
	}
	if err := a.auth.ResetPassword(c.Request.Context(), req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
