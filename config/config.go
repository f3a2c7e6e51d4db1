// Package config loads client settings for authenticated tooling from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	client "github.com/konrad-grochowski/kraken-client-go"
)

// Environment variables read by Load.
const (
	EnvBaseURL   = "KRAKEN_BASE_URL"
	EnvAPIKey    = "KRAKEN_API_KEY"
	EnvAPISecret = "KRAKEN_API_SECRET"
	EnvOTPSeed   = "KRAKEN_OTP_SEED"
	EnvTimeout   = "KRAKEN_TIMEOUT"
)

// DefaultTimeout applies when KRAKEN_TIMEOUT is unset.
const DefaultTimeout = 10 * time.Second

// Config carries everything needed to construct an authenticated client.
type Config struct {
	BaseURL   string `validate:"required,url"`
	APIKey    string `validate:"required"`
	APISecret string `validate:"required,base64"`
	// OTPSeed is optional; accounts without two-factor enrollment leave it
	// empty.
	OTPSeed string
	Timeout time.Duration `validate:"gte=0"`
}

var validate = validator.New()

// Load merges a .env file from the working directory (when present) into the
// environment and reads the configuration. Real environment variables win
// over file entries.
func Load() (*Config, error) {
	return LoadFile()
}

// LoadFile merges the named .env files before reading the environment. With
// no arguments it tries ".env" and tolerates its absence.
func LoadFile(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: loading .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("config: loading env files: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		BaseURL:   envOr(EnvBaseURL, client.DefaultBaseURL),
		APIKey:    os.Getenv(EnvAPIKey),
		APISecret: os.Getenv(EnvAPISecret),
		OTPSeed:   os.Getenv(EnvOTPSeed),
		Timeout:   DefaultTimeout,
	}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("config: %s", describe(verrs))
		}
		return nil, fmt.Errorf("config: validating: %w", err)
	}
	return cfg, nil
}

// Credentials converts the loaded key material for client.WithCredentials.
func (c *Config) Credentials() client.Credentials {
	return client.Credentials{
		ApiKey:    c.APIKey,
		ApiSecret: c.APISecret,
		OtpSeed:   c.OTPSeed,
	}
}

// ClientOptions expands the configuration into functional options for
// client.NewKrakenClient.
func (c *Config) ClientOptions() []client.Option {
	return []client.Option{
		client.WithBaseURL(c.BaseURL),
		client.WithTimeout(c.Timeout),
		client.WithCredentials(c.Credentials()),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envNames maps struct fields back to the variables users actually set, so
// validation failures name the right thing.
var envNames = map[string]string{
	"BaseURL":   EnvBaseURL,
	"APIKey":    EnvAPIKey,
	"APISecret": EnvAPISecret,
	"Timeout":   EnvTimeout,
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, name+" is required")
		case "base64":
			parts = append(parts, name+" is not valid base64")
		case "url":
			parts = append(parts, name+" is not a valid URL")
		default:
			parts = append(parts, fmt.Sprintf("%s fails %q", name, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
