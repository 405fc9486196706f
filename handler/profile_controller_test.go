package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quitecodedevelopers/elearning/auth"
)

func TestProfileRoutes(t *testing.T) {
	t.Run("me requires authentication", func(t *testing.T) {
		srv := newTestServer(t)

		resp := srv.do(t, fiber.MethodGet, "/users/me", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me returns the sanitized account", func(t *testing.T) {
		srv := newTestServer(t, seedUser(t, "me@example.com", "my-password", auth.RoleStudent))
		payload := srv.login(t, "me@example.com", "my-password")

		resp := srv.do(t, fiber.MethodGet, "/users/me", payload.Token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		user := &auth.User{}
		decodeBody(t, resp, user)
		assert.Equal(t, "me@example.com", user.Email)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("update changes the display name", func(t *testing.T) {
		srv := newTestServer(t, seedUser(t, "me@example.com", "my-password", auth.RoleStudent))
		payload := srv.login(t, "me@example.com", "my-password")

		resp := srv.do(t, fiber.MethodPut, "/users/me/update", payload.Token, fiber.Map{
			"name": "Renamed User",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		user := &auth.User{}
		decodeBody(t, resp, user)
		assert.Equal(t, "Renamed User", user.Name)
	})

	t.Run("change password requires the current one", func(t *testing.T) {
		srv := newTestServer(t, seedUser(t, "me@example.com", "my-password", auth.RoleStudent))
		payload := srv.login(t, "me@example.com", "my-password")

		resp := srv.do(t, fiber.MethodPost, "/users/me/change-password", payload.Token, fiber.Map{
			"current_password": "not-my-password",
			"new_password":     "replacement-password",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("change password rotates the credential", func(t *testing.T) {
		srv := newTestServer(t, seedUser(t, "me@example.com", "my-password", auth.RoleStudent))
		payload := srv.login(t, "me@example.com", "my-password")

		resp := srv.do(t, fiber.MethodPost, "/users/me/change-password", payload.Token, fiber.Map{
			"current_password": "my-password",
			"new_password":     "replacement-password",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		// old password no longer works, new one does
		old := srv.do(t, fiber.MethodPost, "/auth/login", "", fiber.Map{
			"email":    "me@example.com",
			"password": "my-password",
		})
		assert.Equal(t, fiber.StatusUnauthorized, old.StatusCode)

		srv.login(t, "me@example.com", "replacement-password")
	})
}
