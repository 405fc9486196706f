package authware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/middleware/authware"
)

var testKey = auth.SigningKey(strings.Repeat("k", auth.MinSigningKeyBytes))

type testIdentity struct {
	id    string
	name  string
	email string
	role  auth.UserRole
}

func (i testIdentity) ID() string          { return i.id }
func (i testIdentity) Name() string        { return i.name }
func (i testIdentity) Email() string       { return i.email }
func (i testIdentity) Role() auth.UserRole { return i.role }

// fakeProvider resolves identities from a fixed map, simulating the live
// user lookup.
type fakeProvider struct {
	identities map[string]testIdentity
}

func (p *fakeProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	identity, ok := p.identities[identifier]
	if !ok {
		return nil, auth.ErrMismatchedHashAndPassword
	}
	return identity, nil
}

func (p *fakeProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	identity, ok := p.identities[identifier]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	return identity, nil
}

func newTestApp(t *testing.T, cfg authware.Config) (*fiber.App, auth.TokenService) {
	t.Helper()

	service := auth.NewTokenService(testKey, time.Hour, nil)
	if cfg.Validator == nil {
		cfg.Validator = service
	}

	app := fiber.New()
	app.Use(authware.New(cfg))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		claims, ok := authware.ClaimsFromFiber(c, "user")
		if !ok {
			return c.JSON(fiber.Map{"subject": "", "role": string(auth.RoleUnknown)})
		}
		return c.JSON(fiber.Map{"subject": claims.Subject(), "role": string(claims.Role())})
	})

	app.Get("/private", authware.RequireAuthenticated("user"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/admin", authware.RequireRole("user", auth.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app, service
}

func issueToken(t *testing.T, service auth.TokenService, email string, role auth.UserRole) string {
	t.Helper()

	token, err := service.Generate(testIdentity{id: "1", email: email, role: role})
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthenticate(t *testing.T) {
	provider := &fakeProvider{identities: map[string]testIdentity{
		"student@example.com": {id: "1", name: "Student", email: "student@example.com", role: auth.RoleStudent},
		"admin@example.com":   {id: "2", name: "Admin", email: "admin@example.com", role: auth.RoleAdmin},
	}}

	app, service := newTestApp(t, authware.Config{Provider: provider})

	t.Run("no token proceeds as anonymous", func(t *testing.T) {
		resp := doRequest(t, app, "/whoami", "")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("valid token authenticates the request", func(t *testing.T) {
		token := issueToken(t, service, "student@example.com", auth.RoleStudent)

		resp := doRequest(t, app, "/private", token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("garbage token downgrades to anonymous instead of failing", func(t *testing.T) {
		resp := doRequest(t, app, "/whoami", "not.a.token")
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = doRequest(t, app, "/private", "not.a.token")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("tampered token is anonymous", func(t *testing.T) {
		token := issueToken(t, service, "student@example.com", auth.RoleStudent)

		// Flip the first character of the signature segment. The final
		// character holds base64url padding bits the decoder ignores, so
		// changing it does not always change the decoded signature.
		sigAt := strings.LastIndex(token, ".") + 1
		flip := byte('A')
		if token[sigAt] == 'A' {
			flip = 'B'
		}
		tampered := token[:sigAt] + string(flip) + token[sigAt+1:]

		resp := doRequest(t, app, "/private", tampered)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token for a deleted user is anonymous", func(t *testing.T) {
		token := issueToken(t, service, "ghost@example.com", auth.RoleStudent)

		resp := doRequest(t, app, "/private", token)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token is anonymous", func(t *testing.T) {
		expired := auth.NewTokenService(testKey, -time.Minute, nil)
		token := issueToken(t, expired, "student@example.com", auth.RoleStudent)

		resp := doRequest(t, app, "/private", token)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token without a role claim is anonymous", func(t *testing.T) {
		impl := service.(*auth.TokenServiceImpl)
		now := time.Now()
		token, err := impl.SignClaims(&auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "student@example.com",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		})
		require.NoError(t, err)

		resp := doRequest(t, app, "/private", token)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("role claim without the namespace prefix is anonymous", func(t *testing.T) {
		impl := service.(*auth.TokenServiceImpl)
		now := time.Now()
		token, err := impl.SignClaims(&auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "student@example.com",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			RoleClaim: string(auth.RoleStudent),
		})
		require.NoError(t, err)

		resp := doRequest(t, app, "/private", token)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRole(t *testing.T) {
	provider := &fakeProvider{identities: map[string]testIdentity{
		"student@example.com": {id: "1", email: "student@example.com", role: auth.RoleStudent},
		"admin@example.com":   {id: "2", email: "admin@example.com", role: auth.RoleAdmin},
	}}

	app, service := newTestApp(t, authware.Config{Provider: provider})

	t.Run("anonymous gets 401", func(t *testing.T) {
		resp := doRequest(t, app, "/admin", "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("student gets 403", func(t *testing.T) {
		token := issueToken(t, service, "student@example.com", auth.RoleStudent)

		resp := doRequest(t, app, "/admin", token)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin gets through", func(t *testing.T) {
		token := issueToken(t, service, "admin@example.com", auth.RoleAdmin)

		resp := doRequest(t, app, "/admin", token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("admin passes the student guard", func(t *testing.T) {
		token := issueToken(t, service, "admin@example.com", auth.RoleAdmin)

		resp := doRequest(t, app, "/private", token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestNilProviderTrustsSignature(t *testing.T) {
	app, service := newTestApp(t, authware.Config{})

	token := issueToken(t, service, "anyone@example.com", auth.RoleStudent)

	resp := doRequest(t, app, "/private", token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTokenFromHeader(t *testing.T) {
	app := fiber.New()

	var extracted string
	app.Get("/", func(c *fiber.Ctx) error {
		extracted = authware.TokenFromHeader(c, "Bearer")
		return c.SendString("ok")
	})

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"standard bearer", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"case insensitive scheme", "bearer abc.def.ghi", "abc.def.ghi"},
		{"no header", "", ""},
		{"wrong scheme", "Basic abc.def.ghi", ""},
		{"scheme without token", "Bearer", ""},
		{"scheme without space", "Bearerabc.def.ghi", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			extracted = ""

			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, extracted)
		})
	}
}

func TestNewPanicsWithoutValidator(t *testing.T) {
	assert.Panics(t, func() {
		authware.New(authware.Config{})
	})
}
