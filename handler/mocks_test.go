package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/course"
	"github.com/quitecodedevelopers/elearning/handler"
	"github.com/quitecodedevelopers/elearning/middleware/authware"
)

var testKey = auth.SigningKey(strings.Repeat("k", auth.MinSigningKeyBytes))

type testConfig struct{}

func (testConfig) GetSigningKey() string      { return string(testKey) }
func (testConfig) GetTokenTTL() time.Duration { return time.Hour }
func (testConfig) GetContextKey() string      { return "user" }
func (testConfig) GetAuthScheme() string      { return "Bearer" }

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// fakeUsers is an in-memory auth.Users. It embeds the interface and
// overrides only what the handlers call.
type fakeUsers struct {
	auth.Users
	byEmail map[string]*auth.User
}

func newFakeUsers(seed ...*auth.User) *fakeUsers {
	f := &fakeUsers{byEmail: map[string]*auth.User{}}
	for _, u := range seed {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	if _, exists := f.byEmail[user.Email]; exists {
		return nil, auth.ErrEmailTaken
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeUsers) Update(ctx context.Context, record *auth.User, criteria ...repository.UpdateCriteria) (*auth.User, error) {
	f.byEmail[record.Email] = record
	return record, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	for _, user := range f.byEmail {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.NewRecordNotFound()
}

// fakeCourses backs the admin guard tests.
type fakeCourses struct {
	course.Courses
	byID map[uuid.UUID]*course.Course
}

func (f *fakeCourses) FetchByID(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeCourses) ListAll(ctx context.Context) ([]*course.Course, error) {
	var out []*course.Course
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourses) Create(ctx context.Context, record *course.Course, criteria ...repository.InsertCriteria) (*course.Course, error) {
	f.byID[record.ID] = record
	return record, nil
}

type fakeRepoManager struct {
	course.RepositoryManager
	users   *fakeUsers
	courses *fakeCourses
}

func (f *fakeRepoManager) Users() auth.Users       { return f.users }
func (f *fakeRepoManager) Courses() course.Courses { return f.courses }

// testServer runs the real middleware and controllers over in-memory
// storage.
type testServer struct {
	app    *fiber.App
	users  *fakeUsers
	repo   *fakeRepoManager
	auther *auth.Auther
}

func newTestServer(t *testing.T, seed ...*auth.User) *testServer {
	t.Helper()

	users := newFakeUsers(seed...)
	repo := &fakeRepoManager{
		users:   users,
		courses: &fakeCourses{byID: map[uuid.UUID]*course.Course{}},
	}

	provider := auth.NewUserProvider(users).WithLogger(noopLogger{})
	auther := auth.NewAuthenticator(provider, testKey, testConfig{}).WithLogger(noopLogger{})

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(authware.New(authware.Config{
		Validator: auther.TokenService(),
		Provider:  provider,
		Logger:    noopLogger{},
	}))

	handler.NewAuthController(users, auther, noopLogger{}).RegisterRoutes(app)
	handler.NewCourseController(repo, noopLogger{}, "user").RegisterRoutes(app)
	handler.NewProfileController(users, noopLogger{}, "user").RegisterRoutes(app)

	return &testServer{app: app, users: users, repo: repo, auther: auther}
}

func seedUser(t *testing.T, email, password string, role auth.UserRole) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return &auth.User{
		ID:           uuid.New(),
		Name:         "Seeded User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	require.NoError(t, resp.Body.Close())
}

func (s *testServer) login(t *testing.T, email, password string) *auth.SessionPayload {
	t.Helper()

	resp := s.do(t, fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := &auth.SessionPayload{}
	decodeBody(t, resp, payload)
	return payload
}
