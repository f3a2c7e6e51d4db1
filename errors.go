package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/konrad-grochowski/kraken-client-go/internal/signing"
)

// APIError represents an error response from the exchange API: a non-2xx
// status, or a response envelope whose error array is non-empty. Server error
// strings follow the "<severity><category>:<message>" convention, severity "E"
// for errors and "W" for warnings.
type APIError struct {
	StatusCode int
	Path       string
	Errors     []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kraken: %s returned %d: %s", e.Path, e.StatusCode, strings.Join(e.Errors, "; "))
}

// Sentinel errors surfaced before any network call is attempted.
var (
	// ErrNoCredentials is returned by private endpoints when the client was
	// built without WithCredentials.
	ErrNoCredentials = errors.New("kraken: no credentials configured")

	// ErrInvalidSecret reports an API secret that is not valid base64 or an
	// OTP seed that is not valid base32.
	ErrInvalidSecret = signing.ErrInvalidSecret

	// ErrClockBeforeEpoch reports a host clock reading before the Unix epoch.
	// A nonce derived from such a reading would be non-increasing, so the
	// call is refused instead.
	ErrClockBeforeEpoch = signing.ErrClockBeforeEpoch
)

// ValidationError indicates invalid input parameters.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("kraken validation: %s: %s", e.Field, e.Message)
}

// IsAuthError returns true if the error is a server-side authentication
// rejection (bad key, bad signature, invalid nonce, permission denied).
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, msg := range apiErr.Errors {
		if strings.HasPrefix(msg, "EAPI:") || strings.HasPrefix(msg, "EAuth:") {
			return true
		}
	}
	return false
}

// IsRateLimited returns true if the error is a rate-limit rejection, either
// as an HTTP 429 or as an error string in the response envelope.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == 429 {
		return true
	}
	for _, msg := range apiErr.Errors {
		if strings.Contains(msg, "Rate limit") {
			return true
		}
	}
	return false
}
