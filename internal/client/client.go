// ABOUTME: HTTP client for the product management REST API
// ABOUTME: Attaches bearer credentials per call and maps failures onto the error taxonomy

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Auth supplies the bearer token for a single call. A nil Auth, or one
// returning an empty token, sends the request unauthenticated.
type Auth interface {
	BearerToken() string
}

// Bearer is a raw token usable as Auth
type Bearer string

// BearerToken implements Auth
func (b Bearer) BearerToken() string { return string(b) }

// Client is the API client for the product management backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Request logging is
// layered on top of its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		copied := *hc
		c.httpClient = &copied
	}
}

// WithTimeout sets the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c.httpClient.Transport = &loggingTransport{next: next, logger: c.logger}

	return c
}

// BaseURL returns the backend base URL the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DoJSON sends in (if non-nil) as a JSON body and decodes a JSON response into
// out (if non-nil). Non-2xx responses become *APIError.
func (c *Client) DoJSON(ctx context.Context, auth Auth, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, auth, method, path, body, contentType, out)
}

// PostForm sends an application/x-www-form-urlencoded POST without credentials
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	return c.do(ctx, nil, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) do(ctx context.Context, auth Auth, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := bearerToken(auth); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}

	return nil
}

func bearerToken(auth Auth) string {
	if auth == nil {
		return ""
	}
	return auth.BearerToken()
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return &TransportError{msg: "request canceled", Err: ctx.Err()}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return &TransportError{msg: "request timed out", Err: ctx.Err()}
	}
	return &TransportError{msg: fmt.Sprintf("cannot connect to backend at %s", c.baseURL), Err: err}
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return &APIError{
		StatusCode: resp.StatusCode,
		Detail:     parseErrorDetail(data),
	}
}
