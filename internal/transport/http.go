package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Error wraps a network-level failure (connection, TLS, DNS, timeout) from a
// dispatched request. It implements net.Error so existing callers can classify
// it without unwrapping.
type Error struct {
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("kraken: transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout, including a context
// deadline expiring mid-request.
func (e *Error) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Temporary reports whether the failure is likely to clear on its own
// (refused or reset connections, timeouts, transient DNS failures). The
// client never retries on its own; this is classification for callers that
// implement their own policy.
func (e *Error) Temporary() bool {
	return isTransient(e.Err)
}

// Response is the untouched result of a dispatched call: status code, headers
// and raw body bytes. Interpreting the body, including non-2xx statuses, is
// the caller's responsibility.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPClient performs single-shot HTTP calls against one API host.
//
// It deliberately never retries. Private calls carry a one-use nonce and a
// signature bound to it, so a replayed body is indistinguishable from a replay
// attack on the server side; retry policy for idempotent public calls is left
// to the caller.
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Option is a functional option for configuring HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to supply a
// custom transport or proxy configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// NewHTTPClient creates a new HTTPClient for the given base URL.
// Default configuration: timeout=10s.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request with optional query parameters.
func (c *HTTPClient) Get(ctx context.Context, path string, headers http.Header, query map[string]string) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, headers, nil)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	return c.do(req)
}

// PostForm performs an HTTP POST carrying an already-encoded form body.
//
// The body string is sent byte-for-byte as given: it has been hashed into the
// request signature upstream, and any re-encoding here would invalidate that
// signature.
func (c *HTTPClient) PostForm(ctx context.Context, path string, headers http.Header, body string) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, headers, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return c.do(req)
}

// do executes the request exactly once and drains the response body. Network
// failures come back as *Error; HTTP error statuses do not: the raw response
// is returned for the caller to interpret.
func (c *HTTPClient) do(req *http.Request) (*Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// newRequest builds an *http.Request with the full URL and headers.
func (c *HTTPClient) newRequest(ctx context.Context, method, path string, headers http.Header, body io.Reader) (*http.Request, error) {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("kraken: creating request: %w", err)
	}

	// Copy all provided headers into the request first, so caller values
	// take precedence over defaults.
	for key, vals := range headers {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}

	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

// isTransient reports whether a network-level error is likely transient. It
// checks for connection refused, connection reset, timeout, and temporary DNS
// resolution failures.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	// Check for timeout errors via the net.Error interface.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Check for DNS errors. A "not found" (NXDOMAIN) response is permanent
	// and is not classified as transient.
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsNotFound
	}

	// Check for operational errors (connection refused, connection reset).
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// Fallback: check the error string for common transient patterns.
	msg := err.Error()
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") {
		return true
	}

	return false
}
