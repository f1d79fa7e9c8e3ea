package storeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/newsportal/internal/news"
)

// FetchAuthors returns every author.
func (c *Client) FetchAuthors(ctx context.Context) ([]news.Author, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "fetch authors", http.MethodGet, "/authors", nil, nil, &raw); err != nil {
		return nil, err
	}
	authors, err := decodeList[news.Author](raw)
	if err != nil {
		return nil, fmt.Errorf("fetch authors: %w", err)
	}
	return authors, nil
}

// FetchAuthor returns one author.
func (c *Client) FetchAuthor(ctx context.Context, id string) (news.Author, error) {
	var a news.Author
	if err := c.call(ctx, "fetch author", http.MethodGet, "/authors/"+id, nil, nil, &a); err != nil {
		return news.Author{}, err
	}
	return a, nil
}

// CreateAuthor validates and submits a new author.
func (c *Client) CreateAuthor(ctx context.Context, a news.Author) (news.Author, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(a.Email)
	if err := news.ValidateAuthor(a); err != nil {
		return news.Author{}, err
	}
	var created news.Author
	if err := c.call(ctx, "create author", http.MethodPost, "/authors", nil, a, &created); err != nil {
		return news.Author{}, err
	}
	return created, nil
}

// UpdateAuthor sends the present fields of upd.
func (c *Client) UpdateAuthor(ctx context.Context, id string, upd news.AuthorUpdate) (news.Author, error) {
	if err := upd.Validate(); err != nil {
		return news.Author{}, err
	}
	var updated news.Author
	if err := c.call(ctx, "update author", http.MethodPut, "/authors/"+id, nil, upd, &updated); err != nil {
		return news.Author{}, err
	}
	return updated, nil
}

// DeleteAuthor removes an author. The store refuses authors that still
// have articles, which surfaces as news.ErrConflict.
func (c *Client) DeleteAuthor(ctx context.Context, id string) error {
	return c.call(ctx, "delete author", http.MethodDelete, "/authors/"+id, nil, nil, nil)
}
