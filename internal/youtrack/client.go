// Package youtrack is a thin client for the YouTrack REST API, limited to
// the knowledge-base (Articles) endpoints this agent exposes as tools.
package youtrack

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// maxErrorBody bounds how much of an error response is copied into the error message.
const maxErrorBody = 1024

// Getter issues GET requests against API resource paths. The articles client
// and the tool layer depend on this rather than on the concrete Client so
// tests can substitute a fake transport.
type Getter interface {
	Get(ctx context.Context, resource string, params url.Values) ([]byte, error)
}

// Config wires the connection to a YouTrack instance.
type Config struct {
	BaseURL string // e.g. https://youtrack.example.com
	Token   string // permanent token, sent as a Bearer credential
	Timeout time.Duration
}

// Client is a reusable HTTP client for one YouTrack instance. It owns auth
// and URL composition; callers own error handling and response parsing.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Getter = (*Client)(nil)

// NewClient builds a client from configuration. The base URL may be given
// with or without a trailing slash.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Get performs GET {base}/api/{resource}?{params} and returns the raw body.
// Any transport failure or non-2xx status is returned as an error; no
// retries are attempted.
func (c *Client) Get(ctx context.Context, resource string, params url.Values) ([]byte, error) {
	u := c.baseURL + "/api/" + strings.TrimLeft(resource, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("youtrack %s: %s: %s", resource, resp.Status, strings.TrimSpace(string(detail)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// Close releases idle transport connections. Safe to call more than once.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
