// Package newsapi is the HTTP client for the remote content store: article
// CRUD, video upload/signing, and homepage asset management.
package newsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsdesk/internal/model"
)

// Client is a minimal HTTP client for the content API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client. baseURL is the API root, e.g.
// "https://news-backend.example.com/api" (no trailing slash). apiKey may be
// empty for deployments without auth.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.http.Do(req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	if c == nil {
		return errors.New("nil newsapi client")
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed: status=%d body=%s", method, path, resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListArticles fetches every article in the store.
func (c *Client) ListArticles(ctx context.Context) ([]model.Article, error) {
	var out []model.Article
	if err := c.doJSON(ctx, http.MethodGet, "/articles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetArticle fetches one article by id.
func (c *Client) GetArticle(ctx context.Context, id string) (model.Article, error) {
	if strings.TrimSpace(id) == "" {
		return model.Article{}, errors.New("empty article id")
	}
	var out model.Article
	if err := c.doJSON(ctx, http.MethodGet, "/articles/"+id, nil, &out); err != nil {
		return model.Article{}, err
	}
	return out, nil
}

// CreateArticle stores a new article and returns the stored copy, including
// the assigned id. All block content must already be in durable form.
func (c *Client) CreateArticle(ctx context.Context, a model.Article) (model.Article, error) {
	var out model.Article
	if err := c.doJSON(ctx, http.MethodPost, "/articles", a, &out); err != nil {
		return model.Article{}, err
	}
	if out.ID == "" {
		out = a
	}
	return out, nil
}

// UpdateArticle patches an existing article.
func (c *Client) UpdateArticle(ctx context.Context, id string, a model.Article) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("empty article id")
	}
	return c.doJSON(ctx, http.MethodPatch, "/articles/"+id, a, nil)
}

// DeleteArticle removes an article from the store.
func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("empty article id")
	}
	return c.doJSON(ctx, http.MethodDelete, "/articles/"+id, nil, nil)
}
