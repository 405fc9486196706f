package auth

import "context"

var identityCtxKey = &contextKey{"identity"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithIdentityContext sets the resolved Identity in the given context.
// The value is immutable and request scoped; it is installed once by the
// request authenticator and read-only downstream.
func WithIdentityContext(r context.Context, identity Identity) context.Context {
	return context.WithValue(r, identityCtxKey, identity)
}

// IdentityFromContext finds the identity from the context. ok is false for
// anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(Identity)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// IsAuthenticated reports whether the request carries a verified identity.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := IdentityFromContext(ctx)
	return ok
}

// RoleFromContext returns the granted role, or RoleUnknown for anonymous
// requests. Callers must treat RoleUnknown as no privilege at all.
func RoleFromContext(ctx context.Context) UserRole {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return RoleUnknown
	}
	return identity.Role()
}
