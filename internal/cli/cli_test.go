package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizzai/go-session"
	"github.com/bizzai/go-session/identityapi"
	"github.com/bizzai/go-session/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// scriptedPrompter answers prompts by title and records what was asked.
type scriptedPrompter struct {
	answers map[string]string
	asked   []string
}

func (p *scriptedPrompter) Ask(fields ...field) error {
	for _, f := range fields {
		p.asked = append(p.asked, f.Title)
		if v, ok := p.answers[f.Title]; ok {
			*f.Value = v
		}
	}
	return nil
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// fakeBackend serves both the identity and the dashboard APIs.
func fakeBackend(t *testing.T, routes func(r chi.Router)) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func loginRoute(t *testing.T, claims jwt.MapClaims) func(chi.Router) {
	body, err := json.Marshal(map[string]string{"token": mintToken(t, claims)})
	require.NoError(t, err)
	return func(r chi.Router) {
		r.Post(identityapi.LoginPath, respond(http.StatusOK, string(body)))
	}
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIURL:          baseURL,
		DashboardAPIURL: baseURL,
		TrainerURL:      baseURL,
		Store:           config.StoreMemory,
		StoreKey:        config.DefaultStoreKey,
		ListenAddr:      config.DefaultListenAddr,
	}
}

func newTestDeps(t *testing.T, baseURL string) (*deps, *scriptedPrompter) {
	t.Helper()
	d, err := newDeps(context.Background(), testConfig(baseURL), nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	p := &scriptedPrompter{answers: map[string]string{}}
	d.prompter = p
	return d, p
}

func signIn(t *testing.T, d *deps) {
	t.Helper()
	var out bytes.Buffer
	code := runLogin(context.Background(), d, &out, session.Credentials{Email: "ana@example.com", Password: "secret"})
	require.Equal(t, exitOK, code, out.String())
}

func withJSONOutput(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}
