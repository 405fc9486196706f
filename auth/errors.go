package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced in structured error payloads.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeIdentityNotFound   = "IDENTITY_NOT_FOUND"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenBadSignature  = "TOKEN_BAD_SIGNATURE"
	TextCodeMissingRoleClaim   = "MISSING_ROLE_CLAIM"
	TextCodeSigningKeyTooShort = "SIGNING_KEY_TOO_SHORT"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrMismatchedHashAndPassword is the single generic credentials error. Both
// the unknown-email and wrong-password branches collapse into it so callers
// cannot tell which half of the credentials failed.
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrTokenExpired means the token verified but its expiry has elapsed.
var ErrTokenExpired = goerrors.New("authentication token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed means the token could not be parsed into its segments.
var ErrTokenMalformed = goerrors.New("authentication token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenBadSignature means the token parsed but its MAC did not verify.
var ErrTokenBadSignature = goerrors.New("authentication token signature mismatch", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature)

// ErrMissingRoleClaim means the token verified but carries no usable role.
// A token with an unreadable role never grants ambient privilege.
var ErrMissingRoleClaim = goerrors.New("authentication token has no role claim", goerrors.CategoryAuth).
	WithTextCode(TextCodeMissingRoleClaim)

// ErrSigningKeyTooShort is fatal at startup, before any request is served.
var ErrSigningKeyTooShort = goerrors.New("signing secret must be at least 32 bytes", goerrors.CategoryValidation).
	WithTextCode(TextCodeSigningKeyTooShort)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrEmailTaken is returned when registering an already present email.
var ErrEmailTaken = goerrors.New("email already present", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsBadSignatureError will check for signature verification failures
func IsBadSignatureError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenBadSignature) {
		return true
	}
	return strings.Contains(err.Error(), "signature is invalid") ||
		strings.Contains(err.Error(), "signature mismatch")
}
