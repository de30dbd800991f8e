// Package gh is a minimal GitHub client for the two things starrank needs:
// fetching raw readme markdown and looking up repository star counts.
// Created by dhawalhost (2026-08-27 10:12:41)
//
// API responses are decoded with the in-house njson decoder; no external
// JSON library sits on this path. Retry policy lives here, on the network
// side, never inside the decoder.
package gh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/backoff"

	"github.com/dhawalhost/starrank/markdown"
	"github.com/dhawalhost/starrank/njson"
)

// Error definitions for client operations
var (
	ErrRepoNotFound = errors.New("gh: repository not found")
	ErrRateLimited  = errors.New("gh: API rate limit exhausted")
	ErrBadResponse  = errors.New("gh: undecodable API response")
)

const (
	// DefaultAPIURL is the public GitHub REST API endpoint.
	DefaultAPIURL = "https://api.github.com"
	// DefaultRawURL serves raw file content for public repositories.
	DefaultRawURL = "https://raw.githubusercontent.com"

	userAgent = "starrank"
)

// Config holds client settings. The zero value is usable; empty fields fall
// back to public GitHub defaults.
type Config struct {
	APIURL  string
	RawURL  string
	Token   string
	Timeout time.Duration
	Backoff backoff.Config
}

// Client talks to the GitHub API. It is safe for concurrent use.
type Client struct {
	cfg    Config
	httpc  *http.Client
	logger log.Logger
}

// New returns a Client with cfg applied over defaults.
func New(cfg Config, logger log.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.RawURL == "" {
		cfg.RawURL = DefaultRawURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Backoff.MaxRetries == 0 {
		cfg.Backoff = backoff.Config{
			MinBackoff: 250 * time.Millisecond,
			MaxBackoff: 5 * time.Second,
			MaxRetries: 4,
		}
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Rate is the core resource slice of a /rate_limit response.
type Rate struct {
	Limit     int64
	Remaining int64
	Reset     time.Time
}

// Fetch retrieves the document at url, typically readme markdown. The body
// is returned as-is; callers own interpretation of the bytes.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, status, err := c.get(ctx, url, "")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("gh: fetching %s: unexpected status %d", url, status)
	}
	return body, nil
}

// Readme fetches the raw readme of a repository from its default branch.
func (c *Client) Readme(ctx context.Context, repo markdown.Repo) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/HEAD/README.md", c.cfg.RawURL, repo.FullName())
	return c.Fetch(ctx, url)
}

// Stars returns the star count of a repository.
func (c *Client) Stars(ctx context.Context, repo markdown.Repo) (int64, error) {
	url := fmt.Sprintf("%s/repos/%s", c.cfg.APIURL, repo.FullName())
	body, status, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return 0, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusMovedPermanently:
		return 0, fmt.Errorf("%w: %s", ErrRepoNotFound, repo.FullName())
	case http.StatusForbidden, http.StatusTooManyRequests:
		return 0, fmt.Errorf("%w: looking up %s", ErrRateLimited, repo.FullName())
	default:
		return 0, fmt.Errorf("gh: looking up %s: unexpected status %d", repo.FullName(), status)
	}

	v, err := njson.ParseSafe(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadResponse, repo.FullName())
	}
	stars := v.Get("stargazers_count")
	if !stars.Exists() {
		return 0, fmt.Errorf("%w: %s has no stargazers_count", ErrBadResponse, repo.FullName())
	}
	return stars.Int(), nil
}

// RateLimit reads the core rate budget from /rate_limit. The endpoint does
// not itself count against the budget.
func (c *Client) RateLimit(ctx context.Context) (Rate, error) {
	url := c.cfg.APIURL + "/rate_limit"
	body, status, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return Rate{}, err
	}
	if status != http.StatusOK {
		return Rate{}, fmt.Errorf("gh: rate limit check: unexpected status %d", status)
	}
	v, err := njson.ParseSafe(body)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: rate limit body", ErrBadResponse)
	}
	core := v.Get("resources", "core")
	if !core.Exists() {
		return Rate{}, fmt.Errorf("%w: rate limit body has no resources.core", ErrBadResponse)
	}
	return Rate{
		Limit:     core.GetInt64("limit"),
		Remaining: core.GetInt64("remaining"),
		Reset:     time.Unix(core.GetInt64("reset"), 0),
	}, nil
}

// get performs one GET with retries on transport failures and 5xx statuses.
// Non-5xx statuses are returned to the caller for interpretation.
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, int, error) {
	var (
		body    []byte
		status  int
		lastErr error
	)
	b := backoff.New(ctx, c.cfg.Backoff)
	for b.Ongoing() {
		body, status, lastErr = c.do(ctx, url, accept)
		if lastErr == nil && status < 500 {
			return body, status, nil
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("gh: server error %d from %s", status, url)
		}
		level.Debug(c.logger).Log("msg", "retrying request", "url", url, "err", lastErr, "attempt", b.NumRetries())
		b.Wait()
	}
	if lastErr == nil {
		lastErr = b.Err()
	}
	return nil, 0, lastErr
}

func (c *Client) do(ctx context.Context, url, accept string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	// The token only makes sense for API calls, not for raw content hosts.
	if c.cfg.Token != "" && strings.HasPrefix(url, c.cfg.APIURL) {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			level.Debug(c.logger).Log("msg", "error closing response body", "err", err)
		}
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
