package signing

import "net/http"

// Header key constants used by private endpoints.
const (
	HeaderApiKey  = "API-Key"
	HeaderApiSign = "API-Sign"
)

// ContentTypeForm is the Content-Type carried by every private request body.
const ContentTypeForm = "application/x-www-form-urlencoded"

// BuildPublicHeaders returns empty headers for unauthenticated requests.
func BuildPublicHeaders() http.Header {
	return http.Header{}
}

// BuildAuthHeaders returns the header set for an authenticated call: the raw
// API key, the computed signature, and the form content type. The key and the
// signature travel in separate headers; the server pairs them to recompute the
// MAC over the body it received.
func BuildAuthHeaders(apiKey, signature string) http.Header {
	h := http.Header{}
	h.Set(HeaderApiKey, apiKey)
	h.Set(HeaderApiSign, signature)
	h.Set("Content-Type", ContentTypeForm)
	return h
}
