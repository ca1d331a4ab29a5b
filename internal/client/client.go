// Package client calls the blog posts API and unwraps its response
// envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/BorisDmv/blog-posts-api/internal/models"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// CreatePostInput is the body of a create request.
type CreatePostInput struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	AuthorID  string   `json:"authorId,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Published bool     `json:"published,omitempty"`
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: httpClient}
}

// FetchBlogPosts returns every post, newest first.
func (c *Client) FetchBlogPosts(ctx context.Context) ([]models.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/blogs", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return do[[]models.Post](c, req, "fetching blog posts")
}

func (c *Client) CreateBlogPost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/blogs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return do[*models.Post](c, req, "creating blog post")
}

func do[T any](c *Client, req *http.Request, action string) (T, error) {
	var out envelope[T]
	res, err := c.HTTP.Do(req)
	if err != nil {
		return out.Data, fmt.Errorf("error %s: %w", action, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return out.Data, fmt.Errorf("error %s: %s", action, http.StatusText(res.StatusCode))
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return out.Data, fmt.Errorf("error %s: decode response: %w", action, err)
	}
	if !out.Success {
		return out.Data, fmt.Errorf("API error: %s", out.Error)
	}
	return out.Data, nil
}
