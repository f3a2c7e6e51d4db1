package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
)

// Sentinel errors reported by the signing pipeline. Both indicate broken
// caller-supplied material and are surfaced before any network activity.
var (
	// ErrInvalidSecret means the API secret is not valid base64 or the OTP
	// seed is not valid base32, or either decodes to an empty key.
	ErrInvalidSecret = errors.New("signing: invalid secret")

	// ErrClockBeforeEpoch means the host clock reads before the Unix epoch.
	// There is no safe fallback: a clamped nonce would stop increasing and the
	// server would reject every subsequent call on this key.
	ErrClockBeforeEpoch = errors.New("signing: system clock reads before the unix epoch")
)

// BuildSignature computes the API-Sign value for a private endpoint call.
//
// The signed message is the raw endpoint path (UTF-8 bytes of the path only,
// no scheme or host) followed by SHA-256(nonce + encodedBody), concatenated
// with no delimiter at either join. The MAC is HMAC-SHA512 keyed with the
// base64-decoded API secret, and the result is base64-encoded. Byte order is
// the entire contract: path before hash, nonce before body. Any transposition
// produces a signature the server rejects.
func BuildSignature(apiSecret, endpointPath, nonce, encodedBody string) (string, error) {
	// 1. Decode the shared secret from standard base64.
	key, err := base64.StdEncoding.DecodeString(apiSecret)
	if err != nil {
		return "", fmt.Errorf("%w: api secret is not valid base64: %v", ErrInvalidSecret, err)
	}
	if len(key) == 0 {
		return "", fmt.Errorf("%w: api secret decodes to an empty key", ErrInvalidSecret)
	}

	// 2. Hash the nonce concatenated with the encoded body.
	digest := sha256.Sum256([]byte(nonce + encodedBody))

	// 3. MAC the path followed by that digest.
	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(endpointPath))
	mac.Write(digest[:])

	// 4. Return the base64-encoded MAC.
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
