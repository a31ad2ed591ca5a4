package brain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Querier submits a question to the answering service. It is implemented by
// *Client and can be replaced in tests.
type Querier interface {
	Query(ctx context.Context, req QueryRequest) ([]byte, error)
}

// Ensure Client implements Querier at compile time.
var _ Querier = (*Client)(nil)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query"`
	// RequestID is sent as X-Request-ID; a new UUID is used when empty.
	RequestID string `json:"-"`
}

// Client talks to the Second Brain HTTP API.
type Client struct {
	endpoint  string
	http      *http.Client
	userAgent string
}

const (
	// QueryPath is appended to the configured base URL.
	QueryPath = "/query"

	defaultUserAgent = "secondbrain/0.1"
	maxBodyBytes     = 8 << 20
	drainBytes       = 64 << 10
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero or negative disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d < 0 {
			d = 0
		}
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for baseURL. The URL is not validated: a missing
// or malformed base surfaces as a *TransportError on the first Query.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:  Endpoint(baseURL),
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint joins the base URL and the query path.
func Endpoint(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + QueryPath
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query posts the question and returns the raw response body of a 2xx reply.
// Non-2xx replies return *StatusError without reading the body; network
// failures return *TransportError.
func (c *Client) Query(ctx context.Context, req QueryRequest) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "execute request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Endpoint: c.endpoint}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	return data, nil
}
