// Package client provides the HTTP client for the ticket analytics backend.
// It issues one GET per dataset request and returns the raw response body.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"ticket-analytics-plugin/pkg/config"
	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/ratelimit"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// FetchError represents a failed request to the analytics backend: the
// transport failed, the status was not 2xx, or the body could not be read.
type FetchError struct {
	Path       string
	StatusCode int
	Msg        string
	Err        error // Wrapped error
}

func (e *FetchError) Error() string {
	msg := e.Msg
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", e.Msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch error for '%s': %s: %v", e.Path, msg, e.Err)
	}
	return fmt.Sprintf("fetch error for '%s': %s", e.Path, msg)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *FetchError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// ClientConfig holds configuration options for the backend client
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	SessionCookie     string
	APIToken          string
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// DefaultConfig returns a ClientConfig with sensible defaults
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:   15 * time.Second,
		Burst:     1,
		UserAgent: "ticket-analytics-plugin",
	}
}

// ConfigFromSettings builds a ClientConfig from loaded settings.
func ConfigFromSettings(s *config.Settings) ClientConfig {
	cfg := DefaultConfig()
	cfg.BaseURL = s.BaseURL
	cfg.Timeout = s.Timeout()
	cfg.RequestsPerSecond = s.RequestsPerSecond
	cfg.Burst = s.Burst
	if s.Secrets != nil {
		cfg.SessionCookie = s.Secrets.SessionCookie
		cfg.APIToken = s.Secrets.APIToken
	}
	return cfg
}

// Client fetches raw dataset bodies from the analytics backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *ratelimit.RateLimiter
	config     ClientConfig
}

// NewClient validates config and returns a ready client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &FetchError{Msg: "backend base URL cannot be empty"}
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &FetchError{Path: cfg.BaseURL, Msg: "backend base URL must be absolute", Err: err}
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    ratelimit.NewRateLimiter(cfg.RequestsPerSecond, float64(cfg.Burst)),
		config:     cfg,
	}, nil
}

// URL returns the absolute URL for req.
func (c *Client) URL(req models.DatasetRequest) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + req.Path()
	u.RawQuery = req.Query().Encode()
	return u.String()
}

// Fetch performs the GET for req and returns the response body. Any non-2xx
// status is a *FetchError carrying the backend's error message when present.
func (c *Client) Fetch(ctx context.Context, req models.DatasetRequest) ([]byte, error) {
	path := req.Path()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Path: path, Msg: "request not sent", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(req), nil)
	if err != nil {
		return nil, &FetchError{Path: path, Msg: "could not build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	if c.config.SessionCookie != "" {
		httpReq.Header.Set("Cookie", c.config.SessionCookie)
	}
	if c.config.APIToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &FetchError{Path: path, Msg: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Path: path, StatusCode: resp.StatusCode, Msg: "could not read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := models.ErrorMessage(body)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &FetchError{Path: path, StatusCode: resp.StatusCode, Msg: msg}
	}

	return body, nil
}
