package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quitecodedevelopers/elearning/auth"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies", func(t *testing.T) {
		hash, err := auth.HashPassword("sup3r-secret")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "sup3r-secret", hash)

		assert.NoError(t, auth.ComparePasswordAndHash("sup3r-secret", hash))
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := auth.HashPassword("")
		assert.ErrorIs(t, err, auth.ErrNoEmptyString)
	})

	t.Run("produces distinct hashes for the same input", func(t *testing.T) {
		a, err := auth.HashPassword("same-input")
		require.NoError(t, err)
		b, err := auth.HashPassword("same-input")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	t.Run("wrong password returns the generic credentials error", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("battery-staple", hash)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("empty stored hash never verifies", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("anything", "")
		assert.Error(t, err)
	})
}
