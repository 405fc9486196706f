package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the verified claim set of a session token
type AuthClaims interface {
	Subject() string
	Role() UserRole
	HasRole(role UserRole) bool
	IsAtLeast(minRole UserRole) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	// RoleClaim carries the RolePrefix-namespaced role string verbatim.
	RoleClaim string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, the principal's email.
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Role decodes the namespaced role claim. Empty or unrecognized claims
// yield RoleUnknown.
func (c *JWTClaims) Role() UserRole {
	return RoleFromClaim(c.RoleClaim)
}

// HasRole checks if the claims carry a specific role
func (c *JWTClaims) HasRole(role UserRole) bool {
	return c.Role() == role
}

// IsAtLeast checks if the claims' role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole UserRole) bool {
	return c.Role().IsAtLeast(minRole)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
