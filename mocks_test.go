package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/bizzai/go-session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdentityAPI implements session.IdentityAPI
type MockIdentityAPI struct {
	mock.Mock
}

func (m *MockIdentityAPI) Register(ctx context.Context, payload session.Registration) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityAPI) Login(ctx context.Context, payload session.Credentials) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

// MockStore implements session.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockStore) Load(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingSink keeps every event it receives.
type recordingSink struct {
	mu     sync.Mutex
	events []session.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event session.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) types() []session.ActivityEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.ActivityEventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// mintToken signs claims with a throwaway key. Decoding never checks it.
func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}
