// Package rest is the JSON-over-HTTP client shared by the provider adapters
// that talk to a REST API directly.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config describes one provider endpoint.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Headers are sent with every request, typically the credential.
	Headers map[string]string
}

// Client sends JSON requests to a single base URL.
type Client struct {
	http    *resty.Client
	baseURL string
}

// StatusError is a reply outside the 2xx range.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, body)
}

// Unauthorized reports whether the provider rejected the credential.
func (e *StatusError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// New creates a client. Each call sends exactly one request; failures are
// returned to the caller, which degrades instead of retrying.
func New(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeaders(cfg.Headers).
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return &Client{http: c, baseURL: baseURL}
}

// BaseURL returns the endpoint requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends in as JSON to path and returns the reply body. A reply outside
// 2xx returns its body together with a *StatusError so callers can decode
// provider error details.
func (c *Client) Post(ctx context.Context, path string, in any) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(in).Post(path)
	return reply(resp, err)
}

// Get fetches path and discards the body.
func (c *Client) Get(ctx context.Context, path string) error {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	_, err = reply(resp, err)
	return err
}

func reply(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	body := resp.Body()
	if !resp.IsSuccess() {
		return body, &StatusError{Status: resp.StatusCode(), Body: string(body)}
	}
	return body, nil
}
