package auth

import "strings"

// UserRole is the closed set of roles a user can hold. Anything outside the
// set decodes to RoleUnknown, which never passes an authorization check.
type UserRole string

const (
	// RoleStudent can browse courses, enroll, and submit assignments.
	RoleStudent UserRole = "STUDENT"
	// RoleAdmin manages courses, lectures, assignments, and grading.
	RoleAdmin UserRole = "ADMIN"
	// RoleUnknown is the explicit catch-all for unrecognized role strings.
	RoleUnknown UserRole = "UNKNOWN"
)

// RolePrefix namespaces the role string inside token claims. Encode and
// decode must agree on it byte for byte: a claim written without the prefix
// decodes to RoleUnknown and the authorization layer rejects it.
const RolePrefix = "ROLE_"

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	default:
		return false
	}
}

// Claim returns the namespaced form stored in the token's role claim.
func (r UserRole) Claim() string {
	return RolePrefix + string(r)
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleStudent: 0,
		RoleAdmin:   1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleStudent,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// RoleFromClaim decodes a namespaced claim value back into a UserRole.
// Claims without the prefix or with an unrecognized role yield RoleUnknown.
func RoleFromClaim(claim string) UserRole {
	if !strings.HasPrefix(claim, RolePrefix) {
		return RoleUnknown
	}

	role, ok := ParseRole(strings.TrimPrefix(claim, RolePrefix))
	if !ok {
		return RoleUnknown
	}

	return role
}
