package signing

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTPParams selects the TOTP profile used to derive one-time passwords.
// Zero fields fall back to the common defaults (6 digits, 30-second step,
// SHA-1). Override only after confirming what the account's two-factor
// enrollment actually expects; a mismatched profile produces codes the server
// silently rejects.
type OTPParams struct {
	Digits    int    // code length
	Period    uint   // step size in seconds
	Algorithm string // "SHA1", "SHA256" or "SHA512"
}

// DefaultOTPParams returns the 6-digit, 30-second, SHA-1 profile.
func DefaultOTPParams() OTPParams {
	return OTPParams{Digits: 6, Period: 30, Algorithm: "SHA1"}
}

// OTPCode derives the time-based one-time password for seed at time t.
//
// The seed is interpreted as RFC 4648 base32; case and missing padding are
// normalized first, so seeds copied straight from an enrollment screen work
// as-is. An empty or undecodable seed yields ErrInvalidSecret. For a fixed t
// the result is deterministic, and any two instants within the same step
// produce the same code.
func OTPCode(seed string, t time.Time, p OTPParams) (string, error) {
	if strings.TrimSpace(seed) == "" {
		return "", fmt.Errorf("%w: otp seed is empty", ErrInvalidSecret)
	}
	if p.Digits == 0 {
		p.Digits = 6
	}
	if p.Period == 0 {
		p.Period = 30
	}
	algorithm, err := otpAlgorithm(p.Algorithm)
	if err != nil {
		return "", err
	}

	code, err := totp.GenerateCodeCustom(seed, t, totp.ValidateOpts{
		Period:    p.Period,
		Digits:    otp.Digits(p.Digits),
		Algorithm: algorithm,
	})
	if err != nil {
		return "", fmt.Errorf("%w: decoding otp seed: %v", ErrInvalidSecret, err)
	}
	return code, nil
}

func otpAlgorithm(name string) (otp.Algorithm, error) {
	switch strings.ToUpper(name) {
	case "", "SHA1":
		return otp.AlgorithmSHA1, nil
	case "SHA256":
		return otp.AlgorithmSHA256, nil
	case "SHA512":
		return otp.AlgorithmSHA512, nil
	}
	return 0, fmt.Errorf("signing: unsupported otp algorithm %q", name)
}
