package auth

// MinSigningKeyBytes is the minimum secret length for HS256. Shorter secrets
// weaken the MAC below the hash output size, so we refuse to start with one.
const MinSigningKeyBytes = 32

// SigningKey is the process-wide HMAC key material. It is derived once at
// startup and never mutated; concurrent reads need no synchronization.
type SigningKey []byte

// NewSigningKey derives the signing key from the configured secret. Callers
// treat an error as fatal: the process must not start with a weak secret.
func NewSigningKey(secret string) (SigningKey, error) {
	if len(secret) < MinSigningKeyBytes {
		return nil, ErrSigningKeyTooShort
	}

	key := make(SigningKey, len(secret))
	copy(key, secret)
	return key, nil
}
