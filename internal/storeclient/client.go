// Package storeclient talks to the collection endpoint over HTTP. It does no
// caching; every call hits the network.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/newsportal/internal/httpclient"
	"github.com/newsportal/internal/news"
)

const maxErrorBody = 2048

// Client is the Store Client.
type Client struct {
	base *httpclient.BaseClient
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// Option customizes a Client.
type Option func(*options)

// WithHTTPClient replaces the default logging client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a Client for the collection endpoint rooted at baseURL,
// e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.Config{Timeout: o.timeout})
	}
	return &Client{base: httpclient.NewBaseClientWithClient(httpClient, baseURL)}
}

// call sends a JSON request and decodes a JSON response into out. Transport
// failures and non-2xx statuses come back as *news.RemoteError.
func (c *Client) call(ctx context.Context, op, method, relPath string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, op, method, relPath, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &news.RemoteError{Op: op, URL: resp.Request.URL.String(), StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &news.RemoteError{Op: op, URL: resp.Request.URL.String(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) send(ctx context.Context, op, method, relPath string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := c.base.NewRequest(ctx, method, relPath, query, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, &news.RemoteError{Op: op, URL: req.URL.String(), Err: err}
	}
	return resp, nil
}

func (c *Client) list(ctx context.Context, op, relPath string, query url.Values) ([]news.Article, error) {
	var raw json.RawMessage
	if err := c.call(ctx, op, http.MethodGet, relPath, query, nil, &raw); err != nil {
		return nil, err
	}
	articles, err := decodeList[news.Article](raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return articles, nil
}

// decodeList accepts a bare JSON array or a {"content": [...]} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Content []T `json:"content"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}
	if envelope.Content == nil {
		return []T{}, nil
	}
	return envelope.Content, nil
}

// isEnvelope reports whether raw is an object whose content field is a list.
func isEnvelope(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var page struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return false
	}
	content := bytes.TrimSpace(page.Content)
	return len(content) > 0 && content[0] == '['
}
