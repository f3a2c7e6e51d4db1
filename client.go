// Package client provides a Go client for the Kraken spot exchange REST API:
// public market data plus the signed private tier (balances, orders, ledger,
// WebSocket token issuance).
//
// Private calls are authenticated per request: a millisecond nonce and an
// optional TOTP code are form-encoded into the body, and the API-Sign header
// carries base64(HMAC-SHA512(secret, path || SHA256(nonce || body))). The
// signing material is assembled freshly for every call and never reused.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/konrad-grochowski/kraken-client-go/internal/signing"
	"github.com/konrad-grochowski/kraken-client-go/internal/transport"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://api.kraken.com"

// OTPParams selects the TOTP profile used for the otp field of private calls.
// Zero fields fall back to 6 digits, a 30-second step and SHA-1. It mirrors
// signing.OTPParams, which lives in an internal package.
type OTPParams struct {
	Digits    int    // code length
	Period    uint   // step size in seconds
	Algorithm string // "SHA1", "SHA256" or "SHA512"
}

// KrakenClient is the top-level API client. Construct it with NewKrakenClient;
// the zero value is not usable. All methods are safe for concurrent use.
type KrakenClient struct {
	http  *transport.HTTPClient
	creds *Credentials
	now   func() time.Time
	otp   signing.OTPParams

	// pairMeta caches asset-pair precision metadata per pair name, filled on
	// first use by order placement.
	pairMeta sync.Map

	// construction-time settings, consumed by NewKrakenClient
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	userAgent  string
}

// Option is a functional option for configuring KrakenClient.
type Option func(*KrakenClient)

// WithBaseURL points the client at a different REST host, e.g. a test server.
func WithBaseURL(url string) Option {
	return func(c *KrakenClient) {
		c.baseURL = url
	}
}

// WithCredentials supplies the API key material required by private endpoints.
func WithCredentials(creds Credentials) Option {
	return func(c *KrakenClient) {
		c.creds = &creds
	}
}

// WithTimeout sets the HTTP timeout for every request.
func WithTimeout(d time.Duration) Option {
	return func(c *KrakenClient) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to supply a
// custom transport or proxy configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *KrakenClient) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *KrakenClient) {
		c.userAgent = ua
	}
}

// WithClock replaces the wall clock used for nonces and one-time passwords.
// Tests inject a fixed clock here to make signatures reproducible; production
// code has no reason to touch it.
func WithClock(now func() time.Time) Option {
	return func(c *KrakenClient) {
		c.now = now
	}
}

// WithOTPParams overrides the TOTP profile. Confirm the account's two-factor
// enrollment before changing this: a mismatched profile generates codes the
// server rejects with an otp error.
func WithOTPParams(p OTPParams) Option {
	return func(c *KrakenClient) {
		c.otp = signing.OTPParams(p)
	}
}

// NewKrakenClient creates a client for the production API. Public endpoints
// work without options; private endpoints additionally need WithCredentials.
func NewKrakenClient(opts ...Option) *KrakenClient {
	c := &KrakenClient{
		baseURL: DefaultBaseURL,
		timeout: 10 * time.Second,
		now:     time.Now,
		otp:     signing.DefaultOTPParams(),
	}
	for _, opt := range opts {
		opt(c)
	}

	topts := []transport.Option{transport.WithTimeout(c.timeout)}
	if c.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(c.httpClient))
	}
	if c.userAgent != "" {
		topts = append(topts, transport.WithUserAgent(c.userAgent))
	}
	c.http = transport.NewHTTPClient(c.baseURL, topts...)
	return c
}

// apiEnvelope is the fixed response wrapper: a list of error strings plus the
// endpoint-specific result payload.
type apiEnvelope struct {
	Error  []string        `json:"error"`
	Result json.RawMessage `json:"result"`
}

// publicGet dispatches an unauthenticated GET and returns the decoded result
// payload.
func (c *KrakenClient) publicGet(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	resp, err := c.http.Get(ctx, path, signing.BuildPublicHeaders(), query)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(path, resp)
}

// QueryPublic calls an arbitrary public endpoint and returns the raw result
// payload. It is the escape hatch for endpoints without a typed method and
// for callers that want to inspect the undecoded payload, e.g. to run it
// through a schema validator.
func (c *KrakenClient) QueryPublic(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	return c.publicGet(ctx, path, query)
}

// privateCall signs and dispatches one private endpoint request.
//
// A fresh nonce, and when the credentials carry an OTP seed a fresh one-time
// password, is generated per call. Endpoint parameters are appended after
// them, so the bytes that get signed are exactly the bytes that go on the
// wire, in the same order.
func (c *KrakenClient) privateCall(ctx context.Context, path string, params signing.Form) (json.RawMessage, error) {
	if c.creds == nil || c.creds.ApiKey == "" || c.creds.ApiSecret == "" {
		return nil, ErrNoCredentials
	}

	nonce, err := signing.NonceAt(c.now())
	if err != nil {
		return nil, err
	}

	form := signing.Form{{Key: "nonce", Value: nonce}}
	if c.creds.OtpSeed != "" {
		code, err := signing.OTPCode(c.creds.OtpSeed, c.now(), c.otp)
		if err != nil {
			return nil, err
		}
		form.Add("otp", code)
	}
	form = append(form, params...)

	body := form.Encode()
	sig, err := signing.BuildSignature(c.creds.ApiSecret, path, nonce, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.PostForm(ctx, path, signing.BuildAuthHeaders(c.creds.ApiKey, sig), body)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(path, resp)
}

// parseEnvelope decodes the standard response envelope. A non-empty error
// array or a non-2xx status becomes an *APIError; otherwise the raw result
// payload is returned for the caller to decode.
func parseEnvelope(path string, resp *transport.Response) (json.RawMessage, error) {
	var env apiEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		// Error statuses from gateways and proxies often carry non-JSON
		// bodies; surface the status rather than the decode failure.
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Path:       path,
				Errors:     []string{http.StatusText(resp.StatusCode)},
			}
		}
		return nil, fmt.Errorf("kraken: decoding response envelope: %w", err)
	}

	if len(env.Error) > 0 {
		return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Errors: env.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Errors:     []string{http.StatusText(resp.StatusCode)},
		}
	}
	return env.Result, nil
}
