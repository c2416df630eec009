package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
)

// Privileged calls for the admin surface. The session rides on a cookie
// jar; any 401 unwraps to ErrAuthExpired so the surrounding app can
// force a re-login.

// EnableSession attaches a cookie jar so the admin session cookie
// survives across calls.
func (c *Client) EnableSession() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	c.httpClient.Jar = jar
	return nil
}

// AdminLogin exchanges the admin password for a session cookie.
func (c *Client) AdminLogin(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/login", map[string]string{"password": password}, nil)
}

func (c *Client) AdminLogout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/admin/logout", nil, nil)
}

// AdminCheck probes whether the session is still live.
func (c *Client) AdminCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/admin/check", nil, nil)
}

// UpdatePostLabel changes a post's label (admin only).
func (c *Client) UpdatePostLabel(ctx context.Context, postID int, label string) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/posts/%d/label", postID), map[string]string{"label": label}, nil)
}

// DeletePost removes a post and its replies (admin only).
func (c *Client) DeletePost(ctx context.Context, postID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil, nil)
}

// DeleteReply removes a single reply (admin only).
func (c *Client) DeleteReply(ctx context.Context, replyID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/replies/%d", replyID), nil, nil)
}
