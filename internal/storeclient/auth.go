package storeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/newsportal/internal/news"
)

// ForgotPasswordResult is the gateway's answer to a reset request. The reset
// token itself is delivered out of band and never decoded here.
type ForgotPasswordResult struct {
	Message string `json:"message"`
}

// Login exchanges credentials for the account.
func (c *Client) Login(ctx context.Context, creds news.Credentials) (news.User, error) {
	var user news.User
	err := c.auth(ctx, "login", "/auth/login", creds, &user)
	return user, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg news.Registration) (news.User, error) {
	var user news.User
	err := c.auth(ctx, "register", "/auth/register", reg, &user)
	return user, err
}

// ForgotPassword starts the reset flow for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (ForgotPasswordResult, error) {
	var out ForgotPasswordResult
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	err := c.auth(ctx, "forgot password", "/auth/forgot-password", body, &out)
	return out, err
}

// ResetPassword completes the reset flow.
func (c *Client) ResetPassword(ctx context.Context, req news.PasswordReset) error {
	return c.auth(ctx, "reset password", "/auth/reset-password", req, nil)
}

// auth posts to the gateway. Any non-2xx answer becomes a *news.AuthError
// whose message is the JSON "message" field, then "error", then the raw body.
func (c *Client) auth(ctx context.Context, op, relPath string, body, out any) error {
	resp, err := c.send(ctx, op, http.MethodPost, relPath, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &news.AuthError{StatusCode: resp.StatusCode, Message: authMessage(b, resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &news.RemoteError{Op: op, URL: resp.Request.URL.String(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func authMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
