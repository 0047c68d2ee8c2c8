// Package config builds process configuration from the environment so
// main stays lean.
package config

import (
	"os"
	"time"
)

// ProviderCredentials holds one OAuth2 provider's client credentials.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
}

// Config captures everything the process reads from the environment.
type Config struct {
	Addr          string
	JWTSigningKey string
	DatabaseURL   string
	RedisURL      string
	// AppURL is the public base URL used to build provider callback
	// redirects, e.g. https://auth.example.com
	AppURL     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Google     ProviderCredentials
	GitHub     ProviderCredentials
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("AUTHGATE_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	signingKey := os.Getenv("SECRET_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8000"
	}

	return Config{
		Addr:          addr,
		JWTSigningKey: signingKey,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		AppURL:        appURL,
		AccessTTL:     durationFromEnv("ACCESS_TOKEN_TTL"),
		RefreshTTL:    durationFromEnv("REFRESH_TOKEN_TTL"),
		Google: ProviderCredentials{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
		GitHub: ProviderCredentials{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		},
	}
}

// durationFromEnv parses a duration variable; zero means "use the default"
// and is what unset or malformed values produce.
func durationFromEnv(name string) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
