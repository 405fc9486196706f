package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quitecodedevelopers/elearning/auth"
)

type testAuthConfig struct {
	ttl time.Duration
}

func (c testAuthConfig) GetSigningKey() string      { return string(testSigningKey) }
func (c testAuthConfig) GetTokenTTL() time.Duration { return c.ttl }
func (c testAuthConfig) GetContextKey() string      { return "user" }
func (c testAuthConfig) GetAuthScheme() string      { return "Bearer" }

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()
	user := newStoredUser(t, "student@example.com", "valid-password", auth.RoleStudent)
	provider := auth.NewUserProvider(newMemoryStore(user)).WithLogger(silentLogger{})

	auther := auth.NewAuthenticator(provider, testSigningKey, testAuthConfig{ttl: time.Hour}).
		WithLogger(silentLogger{})

	t.Run("issues a session for valid credentials", func(t *testing.T) {
		payload, err := auther.Login(ctx, "student@example.com", "valid-password")

		require.NoError(t, err)
		assert.NotEmpty(t, payload.Token)
		assert.Equal(t, user.ID.String(), payload.ID)
		assert.Equal(t, "Test User", payload.Name)
		assert.Equal(t, "student@example.com", payload.Email)
		assert.Equal(t, auth.RoleStudent, payload.Role)

		claims, err := auther.TokenService().Validate(payload.Token)
		require.NoError(t, err)
		assert.Equal(t, "student@example.com", claims.Subject())
		assert.Equal(t, auth.RoleStudent, claims.Role())
	})

	t.Run("wrong password yields the generic credentials error", func(t *testing.T) {
		payload, err := auther.Login(ctx, "student@example.com", "wrong-password")

		assert.Nil(t, payload)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("unknown email yields the same error", func(t *testing.T) {
		payload, err := auther.Login(ctx, "nobody@example.com", "valid-password")

		assert.Nil(t, payload)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("issued token expires after the configured TTL", func(t *testing.T) {
		short := auth.NewAuthenticator(provider, testSigningKey, testAuthConfig{ttl: time.Second}).
			WithLogger(silentLogger{})

		payload, err := short.Login(ctx, "student@example.com", "valid-password")
		require.NoError(t, err)

		claims, err := short.TokenService().Validate(payload.Token)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Second), claims.Expires(), 2*time.Second)

		time.Sleep(1100 * time.Millisecond)

		_, err = short.TokenService().Validate(payload.Token)
		assert.True(t, auth.IsTokenExpiredError(err))
	})
}
