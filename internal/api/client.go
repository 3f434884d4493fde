// Package api is a typed client for the MoneyMap backend REST surface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "moneytree-cli/1.0"
)

// ErrNotFound matches any RequestError with HTTP status 404.
// Callers treat it as "the user does not exist server-side".
var ErrNotFound = errors.New("api: not found")

// RequestError is returned for every non-2xx response and transport failure.
type RequestError struct {
	Method  string
	Path    string
	Status  int // 0 for transport failures
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports 404 responses as ErrNotFound.
func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Client talks to the backend. It is stateless between calls and safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// seg escapes a single path segment.
func seg(s string) string {
	return url.PathEscape(s)
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Method: method, Path: path, Message: fmt.Sprintf("api: encoding request: %v", err), Err: err}
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, body, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Method: method, Path: path, Message: fmt.Sprintf("api: creating request: %v", err), Err: err}
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req) //nolint:gosec // URL is built from the configured backend
	if err != nil {
		c.log.Warn("api request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return &RequestError{Method: method, Path: path, Message: fmt.Sprintf("api: request failed: %v", err), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: fmt.Sprintf("api: reading response: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(data, resp.StatusCode),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: fmt.Sprintf("api: parsing response: %v", err), Err: err}
	}
	return nil
}

// errorMessage extracts the server-supplied message or synthesizes "API Error: <status>".
func errorMessage(body []byte, status int) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		// FastAPI sends detail as a string, or as a list of validation errors.
		var detail string
		if len(payload.Detail) > 0 && json.Unmarshal(payload.Detail, &detail) == nil && detail != "" {
			return detail
		}
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("API Error: %d", status)
}
