package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quitecodedevelopers/elearning/auth"
)

func TestIdentityContext(t *testing.T) {
	identity := &MockIdentity{}
	identity.On("Role").Return(auth.RoleAdmin)

	t.Run("round trips an identity", func(t *testing.T) {
		ctx := auth.WithIdentityContext(context.Background(), identity)

		got, ok := auth.IdentityFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, auth.Identity(identity), got)
		assert.True(t, auth.IsAuthenticated(ctx))
		assert.Equal(t, auth.RoleAdmin, auth.RoleFromContext(ctx))
	})

	t.Run("empty context is anonymous", func(t *testing.T) {
		ctx := context.Background()

		_, ok := auth.IdentityFromContext(ctx)
		assert.False(t, ok)
		assert.False(t, auth.IsAuthenticated(ctx))
		assert.Equal(t, auth.RoleUnknown, auth.RoleFromContext(ctx))
	})
}

func TestClaimsContext(t *testing.T) {
	claims := &auth.JWTClaims{RoleClaim: auth.RoleStudent.Claim()}

	t.Run("round trips claims", func(t *testing.T) {
		ctx := auth.WithClaimsContext(context.Background(), claims)

		got, ok := auth.GetClaims(ctx)
		require.True(t, ok)
		assert.Equal(t, auth.RoleStudent, got.Role())
	})

	t.Run("missing claims reported via ok", func(t *testing.T) {
		_, ok := auth.GetClaims(context.Background())
		assert.False(t, ok)
	})
}
