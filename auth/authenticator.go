package auth

import (
	"context"
	"reflect"
)

// SessionPayload is the client-facing result of a successful login. It
// deliberately excludes the password hash.
type SessionPayload struct {
	Token string   `json:"token"`
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Auther orchestrates credential verification and token issuance.
type Auther struct {
	provider     IdentityProvider
	signingKey   SigningKey
	logger       Logger
	tokenService TokenService
}

// NewAuthenticator returns a new Authenticator. The signing key has already
// been length-checked at startup by NewSigningKey.
func NewAuthenticator(provider IdentityProvider, key SigningKey, opts Config) *Auther {
	tokenService := NewTokenService(key, opts.GetTokenTTL(), defLogger{})

	return &Auther{
		provider:     provider,
		signingKey:   key,
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenService overrides the token service, mostly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and issues a session token. Every
// verification failure surfaces as the single generic credentials error;
// the specific cause is only logged.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*SessionPayload, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, ErrMismatchedHashAndPassword
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrMismatchedHashAndPassword
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return nil, err
	}

	return &SessionPayload{
		Token: token,
		ID:    identity.ID(),
		Name:  identity.Name(),
		Email: identity.Email(),
		Role:  identity.Role(),
	}, nil
}

var _ Authenticator = (*Auther)(nil)
