// Package fetch retrieves the table-of-contents and full-text documentation
// documents over HTTP.
//
// Each document has its own timeout. Transport errors, 429 and 5xx responses
// are retried with exponential backoff; any other non-2xx status fails
// immediately with a *StatusError.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default timeouts. Document locations have no default and must be set by
// the caller.
const (
	DefaultTOCTimeout      = 30 * time.Second
	DefaultFullTextTimeout = 60 * time.Second
	DefaultRetryDelay      = 500 * time.Millisecond
)

var (
	// ErrUnexpectedStatus is wrapped by StatusError.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMissingURL is returned when a document location is not configured.
	ErrMissingURL = errors.New("document URL not configured")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Retryable is true for 429 and 5xx responses.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config locates the documents.
type Config struct {
	TOCURL          string
	FullTextURL     string
	TOCTimeout      time.Duration
	FullTextTimeout time.Duration
	// MaxRetries is the number of extra attempts after the first one.
	MaxRetries int
	RetryDelay time.Duration
	UserAgent  string
}

func (c Config) withDefaults() Config {
	if c.TOCTimeout <= 0 {
		c.TOCTimeout = DefaultTOCTimeout
	}
	if c.FullTextTimeout <= 0 {
		c.FullTextTimeout = DefaultFullTextTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client fetches documentation documents. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New returns a Client for cfg. Zero timeouts and retry delay take their
// defaults; an empty URL makes the matching fetch fail with ErrMissingURL.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg.withDefaults(),
		http:   &http.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// FetchTOC returns the table-of-contents document.
func (c *Client) FetchTOC(ctx context.Context) (string, error) {
	return c.Get(ctx, c.cfg.TOCURL, c.cfg.TOCTimeout)
}

// FetchFullText returns the full-text document.
func (c *Client) FetchFullText(ctx context.Context) (string, error) {
	return c.Get(ctx, c.cfg.FullTextURL, c.cfg.FullTextTimeout)
}

// Documents holds both documents.
type Documents struct {
	TOC      string
	FullText string
}

// FetchAll fetches both documents concurrently. It fails if either fetch
// fails.
func (c *Client) FetchAll(ctx context.Context) (Documents, error) {
	var docs Documents
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := c.FetchTOC(ctx)
		docs.TOC = text
		return err
	})
	g.Go(func() error {
		text, err := c.FetchFullText(ctx)
		docs.FullText = text
		return err
	})
	if err := g.Wait(); err != nil {
		return Documents{}, err
	}
	return docs, nil
}

// Get fetches url with the given per-attempt timeout, retrying transient
// failures.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) (string, error) {
	var body string
	err := retry(ctx, c.logger, c.cfg.MaxRetries+1, c.cfg.RetryDelay, func() error {
		var err error
		body, err = c.get(ctx, url, timeout)
		return err
	})
	if err != nil {
		return "", err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if url == "" {
		return "", permanent(fmt.Errorf("fetch: %w", ErrMissingURL))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", permanent(fmt.Errorf("fetch: %s: request: %w", url, err))
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		serr := &StatusError{URL: url, StatusCode: resp.StatusCode}
		if !serr.Retryable() {
			return "", permanent(serr)
		}
		return "", serr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch: %s: read body: %w", url, err)
	}

	c.logger.Debug("document fetched",
		"component", "fetch",
		"operation", "get",
		"url", url,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return string(data), nil
}
