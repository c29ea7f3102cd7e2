// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the API process needs at startup.
type Config struct {
	ListenAddr      string        `env:"AE2I_LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL     string        `env:"AE2I_DATABASE_URL"`
	JWTSecret       string        `env:"AE2I_JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"AE2I_ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"AE2I_REFRESH_TOKEN_TTL" envDefault:"168h"`

	LogLevel  string `env:"AE2I_LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"AE2I_LOG_PRETTY" envDefault:"false"`

	AllowedOrigins []string `env:"AE2I_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitRPS   float64  `env:"AE2I_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int      `env:"AE2I_RATE_LIMIT_BURST" envDefault:"40"`
	MaxBodyBytes   int64    `env:"AE2I_MAX_BODY_BYTES" envDefault:"1048576"`

	ShutdownTimeout time.Duration `env:"AE2I_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LinkedInClientID     string `env:"AE2I_LINKEDIN_CLIENT_ID"`
	LinkedInClientSecret string `env:"AE2I_LINKEDIN_CLIENT_SECRET"`
	LinkedInRedirectURL  string `env:"AE2I_LINKEDIN_REDIRECT_URL"`
	FrontendURL          string `env:"AE2I_FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// Load parses the environment into a Config and validates the required
// fields. LinkedIn credentials are optional; the social sign-on routes report
// the feature unconfigured when they are absent.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: AE2I_DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: AE2I_JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("config: AE2I_ACCESS_TOKEN_TTL must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return errors.New("config: AE2I_REFRESH_TOKEN_TTL must be positive")
	}
	return nil
}

// LinkedInConfigured reports whether the social sign-on credentials are set.
func (c *Config) LinkedInConfigured() bool {
	return c.LinkedInClientID != "" && c.LinkedInClientSecret != "" && c.LinkedInRedirectURL != ""
}
