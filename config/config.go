// Package config loads the application configuration from the environment,
// optionally seeded from a .env file in development.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// AppConfig is the complete application configuration.
type AppConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	Server struct {
		Addr string `env:"SERVER_ADDR" envDefault:":8080"`
	}

	Database struct {
		DSN string `env:"DATABASE_DSN" envDefault:"file:elearning.db?cache=shared&_pragma=foreign_keys(1)"`
	}

	Auth struct {
		// SigningKey has no default on purpose: startup fails closed when
		// it is unset or shorter than the HMAC minimum.
		SigningKey     string `env:"AUTH_SIGNING_KEY"`
		TokenTTLMillis int64  `env:"AUTH_TOKEN_TTL" envDefault:"86400000"`
		ContextKey     string `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
		AuthScheme     string `env:"AUTH_SCHEME" envDefault:"Bearer"`
	}
}

// Load reads the configuration from the environment. A missing .env file
// is not an error.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetSigningKey implements auth.Config.
func (c *AppConfig) GetSigningKey() string {
	return c.Auth.SigningKey
}

// GetTokenTTL implements auth.Config.
func (c *AppConfig) GetTokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMillis) * time.Millisecond
}

// GetContextKey implements auth.Config.
func (c *AppConfig) GetContextKey() string {
	return c.Auth.ContextKey
}

// GetAuthScheme implements auth.Config.
func (c *AppConfig) GetAuthScheme() string {
	return c.Auth.AuthScheme
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}
