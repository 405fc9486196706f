// Package authware is the per-request authenticator. It extracts a bearer
// token, verifies it, re-fetches the live user, and installs the
// authenticated context for downstream handlers.
//
// Failure policy: the middleware NEVER aborts the pipeline. A missing,
// malformed, expired, or otherwise untrusted token downgrades the request
// to anonymous and lets it continue; access control happens at the
// per-endpoint guards (RequireAuthenticated, RequireRole). This fail-open-
// to-anonymous behavior is deliberate: public endpoints depend on the
// anonymous fallback, so do not "fix" it into an early 401.
package authware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quitecodedevelopers/elearning/auth"
)

// Config holds the authenticator dependencies and knobs.
type Config struct {
	// Validator verifies raw tokens. Required.
	Validator auth.TokenValidator

	// Provider re-fetches the subject as a live user so tokens issued to
	// since-deleted accounts stop working before their expiry. Leave nil
	// for pure-signature deployments that skip the lookup.
	Provider auth.IdentityProvider

	// ContextKey is where verified claims land in fiber Locals.
	ContextKey string

	// AuthScheme is the required Authorization scheme prefix.
	AuthScheme string

	Logger auth.Logger
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("authware: Validator is required")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	return cfg
}

// New returns the request authenticator middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		authenticate(c, cfg)
		return c.Next()
	}
}

// authenticate resolves the request to an authenticated context or leaves
// it anonymous. It must not panic out: any failure, including a panic in a
// collaborator, leaves the request anonymous.
func authenticate(c *fiber.Ctx, cfg Config) {
	defer func() {
		if r := recover(); r != nil {
			cfg.Logger.Error("authenticator recovered, proceeding as anonymous", "panic", r)
		}
	}()

	raw := TokenFromHeader(c, cfg.AuthScheme)
	if raw == "" {
		return
	}

	claims, err := cfg.Validator.Validate(raw)
	if err != nil {
		logValidationFailure(cfg.Logger, err)
		return
	}

	identity, ok := resolveIdentity(c, cfg, claims)
	if !ok {
		return
	}

	// Validate already checked expiry; guard against a future validator
	// that returns claims without doing so.
	if !claims.Expires().After(time.Now()) {
		cfg.Logger.Warn("token claims expired at re-check", "subject", claims.Subject())
		return
	}

	if role := claims.Role(); !role.IsValid() {
		cfg.Logger.Warn("token carries no usable role claim, proceeding as anonymous",
			"error", auth.ErrMissingRoleClaim, "subject", claims.Subject())
		return
	}

	c.Locals(cfg.ContextKey, claims)

	ctx := auth.WithClaimsContext(c.UserContext(), claims)
	if identity != nil {
		ctx = auth.WithIdentityContext(ctx, identity)
	}
	c.SetUserContext(ctx)
}

// resolveIdentity re-fetches the live user for the token subject. A nil
// Provider skips the lookup and trusts the signature alone; the claims
// still carry the granted role.
func resolveIdentity(c *fiber.Ctx, cfg Config, claims auth.AuthClaims) (auth.Identity, bool) {
	if cfg.Provider == nil {
		return claimsIdentity{claims: claims}, true
	}

	identity, err := cfg.Provider.FindIdentityByIdentifier(c.UserContext(), claims.Subject())
	if err != nil {
		cfg.Logger.Warn("token subject no longer resolves to a live user, proceeding as anonymous",
			"subject", claims.Subject(), "error", err)
		return nil, false
	}

	if identity.Email() != claims.Subject() {
		cfg.Logger.Error("token subject does not match resolved identity",
			"subject", claims.Subject(), "identity", identity.Email())
		return nil, false
	}

	return identity, true
}

// TokenFromHeader extracts the bearer token from the Authorization header.
// The scheme prefix must match exactly (case-insensitive); anything else
// counts as no token at all.
func TokenFromHeader(c *fiber.Ctx, authScheme string) string {
	header := c.Get(fiber.HeaderAuthorization)
	l := len(authScheme)

	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) && header[l] == ' ' {
		return strings.TrimSpace(header[l+1:])
	}

	return ""
}

// ClaimsFromFiber reads the verified claims a previous authenticate pass
// installed in Locals. ok is false for anonymous requests.
func ClaimsFromFiber(c *fiber.Ctx, key string) (auth.AuthClaims, bool) {
	if key == "" {
		key = "user"
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(auth.AuthClaims)
	return claims, ok
}

// RequireAuthenticated rejects anonymous requests with 401. This is where
// "authentication failed" finally turns into a denial; the authenticator
// itself never does.
func RequireAuthenticated(contextKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClaimsFromFiber(c, contextKey); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireRole rejects requests whose granted role is below minRole:
// anonymous requests get 401, authenticated-but-insufficient get 403.
func RequireRole(contextKey string, minRole auth.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromFiber(c, contextKey)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		if !claims.IsAtLeast(minRole) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}

		return c.Next()
	}
}

func logValidationFailure(logger auth.Logger, err error) {
	switch {
	case auth.IsTokenExpiredError(err):
		logger.Info("expired token, proceeding as anonymous", "error", err)
	case auth.IsBadSignatureError(err):
		logger.Warn("token signature mismatch, proceeding as anonymous", "error", err)
	default:
		logger.Info("malformed token, proceeding as anonymous", "error", err)
	}
}

// claimsIdentity adapts verified claims into an Identity when the live
// user lookup is disabled.
type claimsIdentity struct {
	claims auth.AuthClaims
}

func (c claimsIdentity) ID() string          { return c.claims.Subject() }
func (c claimsIdentity) Name() string        { return "" }
func (c claimsIdentity) Email() string       { return c.claims.Subject() }
func (c claimsIdentity) Role() auth.UserRole { return c.claims.Role() }

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
