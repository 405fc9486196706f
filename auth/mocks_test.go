package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quitecodedevelopers/elearning/auth"
)

// MockIdentity implements auth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() auth.UserRole {
	args := m.Called()
	return args.Get(0).(auth.UserRole)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// silentLogger drops everything, for tests that do not assert on logging.
type silentLogger struct{}

func (silentLogger) Debug(string, ...any) {}
func (silentLogger) Info(string, ...any)  {}
func (silentLogger) Warn(string, ...any)  {}
func (silentLogger) Error(string, ...any) {}

// memoryStore is an in-memory auth.UserStore keyed by email.
type memoryStore struct {
	users map[string]*auth.User
	err   error
}

func newMemoryStore(users ...*auth.User) *memoryStore {
	s := &memoryStore{users: map[string]*auth.User{}}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *memoryStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[email]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	return user, nil
}
