// Package api is a thin typed client for the marketplace HTTP API.
//
// Every request carries a timeout; archive and skill body downloads get twice
// the configured value. Non-2xx responses become *Error. Telemetry is the
// exception: it reports failure as a value and never returns an error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL   = "https://skillstore.io/api"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "skillstore-cli"

	headerRequestID = "X-Request-ID"
)

// Options configures a Client.
type Options struct {
	BaseURL    string        // API base, e.g. https://skillstore.io/api
	Timeout    time.Duration // per-request timeout; downloads use twice this
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client talks to the marketplace API.
type Client struct {
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	logger    *slog.Logger
	userAgent string
}

// New creates a Client, filling zero options with defaults.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		timeout:   opts.Timeout,
		http:      opts.HTTPClient,
		logger:    opts.Logger,
		userAgent: opts.UserAgent,
	}
}

// BaseURL returns the API base without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// ResolveDownloadURL makes a manifest download URL absolute. Relative URLs
// are resolved against the site root: base with any trailing /api removed.
func ResolveDownloadURL(base, raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	root := strings.TrimSuffix(strings.TrimRight(base, "/"), "/api")
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return root + raw
}

func (c *Client) endpoint(format string, args ...any) string {
	return c.baseURL + fmt.Sprintf(format, args...)
}

// do performs one request and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, kind Kind, method, url string, in any, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	c.logger.Debug("api request",
		"method", method, "url", url, "status", resp.StatusCode,
		"request_id", reqID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(kind, resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, kind Kind, url string, out any) error {
	data, err := c.do(ctx, kind, http.MethodGet, url, nil, c.timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, kind Kind, url string, in any) error {
	_, err := c.do(ctx, kind, http.MethodPost, url, in, c.timeout)
	return err
}

// envelope is the {data: ...} wrapper the info endpoints use.
type envelope[T any] struct {
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
