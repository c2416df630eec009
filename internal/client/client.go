// Package client is the typed HTTP client for the engagement API. It
// translates board operations onto the wire protocol and surfaces every
// non-2xx response as a *TransportError. No retries happen here; a
// failed call is the caller's problem (the reaction path rolls back,
// everything else just reports).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bakuwaki/internal/ledger"
	"bakuwaki/internal/models"
)

// ErrAuthExpired marks a 401 from a privileged call. The surrounding
// app decides what to do with it; this package only tags it.
var ErrAuthExpired = errors.New("admin session expired")

// TransportError carries the HTTP status of a failed call.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("engagement api: status %d: %s", e.Status, e.Message)
}

func (e *TransportError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrAuthExpired
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListParams are the query parameters of GET /api/posts.
type ListParams struct {
	Label  string // empty means all labels
	Page   int
	Limit  int
	Search string
	Sort   string // newest|oldest|good|bad
}

// ListPosts fetches one page of posts with their replies.
func (c *Client) ListPosts(ctx context.Context, params ListParams) (*models.PostsPage, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 30
	}
	if params.Sort == "" {
		params.Sort = "newest"
	}

	q := url.Values{}
	q.Set("include", "replies")
	q.Set("page", fmt.Sprintf("%d", params.Page))
	q.Set("limit", fmt.Sprintf("%d", params.Limit))
	q.Set("sort", params.Sort)
	if params.Label != "" {
		q.Set("label", params.Label)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	var page models.PostsPage
	if err := c.do(ctx, http.MethodGet, "/api/posts?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePost submits a new top-level post. Image payloads are opaque to
// the client (data URLs or URLs, the server sorts it out).
func (c *Client) CreatePost(ctx context.Context, username, content, label string, images []string) error {
	body := map[string]interface{}{
		"username":   username,
		"content":    content,
		"label":      label,
		"image_urls": images,
	}
	return c.do(ctx, http.MethodPost, "/api/posts", body, nil)
}

// CreateReply replies either to a post or to another reply; the target
// type picks the endpoint.
func (c *Client) CreateReply(ctx context.Context, targetID int, targetType ledger.TargetType, username, content string, images []string) error {
	var path string
	switch targetType {
	case ledger.TargetPost:
		path = fmt.Sprintf("/api/posts/%d/replies", targetID)
	case ledger.TargetReply:
		path = fmt.Sprintf("/api/replies/%d/replies", targetID)
	default:
		return fmt.Errorf("unknown target type %q", targetType)
	}

	body := map[string]interface{}{
		"username": username,
		"content":  content,
	}
	if len(images) > 0 {
		body["image_urls"] = images
	}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// CreateReaction submits one good/bad for a target.
func (c *Client) CreateReaction(ctx context.Context, targetID int, targetType ledger.TargetType, polarity ledger.Polarity) error {
	var path string
	switch targetType {
	case ledger.TargetPost:
		path = fmt.Sprintf("/api/posts/%d/reaction", targetID)
	case ledger.TargetReply:
		path = fmt.Sprintf("/api/replies/%d/reaction", targetID)
	default:
		return fmt.Errorf("unknown target type %q", targetType)
	}
	return c.do(ctx, http.MethodPost, path, map[string]string{"reaction_type": string(polarity)}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &TransportError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
