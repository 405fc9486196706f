package auth

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal structured logging surface the auth package needs.
// Production wiring adapts a zap sugared logger; tests use defLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Name() string
	Email() string
	Role() UserRole
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*SessionPayload, error)
	TokenService() TokenService
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetContextKey() string
	GetAuthScheme() string
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(msg), args...)
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(msg), args...)
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(msg), args...)
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(msg), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
