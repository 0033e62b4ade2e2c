// internal/common/http/client.go
// Package http provides the shared outbound client used to fetch rule
// source pages. The timeout is a hard ceiling per request; callers pass a
// context to cancel earlier than that.
package http

import (
	"context"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	inner *http.Client
}

// NewClient returns a client with the given per-request timeout. A zero or
// negative timeout falls back to 30 seconds; an unbounded client would let
// a stalled source page hold a job slot until the broker times it out.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		inner: &http.Client{Timeout: timeout},
	}
}

// DoWithContext executes req bound to ctx.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.inner.Do(req.WithContext(ctx))
}
