package routeguard_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizzai/go-session"
	"github.com/bizzai/go-session/middleware/routeguard"
	"github.com/go-chi/chi/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	identity *session.Identity
}

func (s staticSource) Identity() (*session.Identity, bool) {
	return s.identity, s.identity != nil
}

func anonymousGuard() *session.Guard {
	return session.NewGuard(staticSource{})
}

func signedInGuard() *session.Guard {
	return session.NewGuard(staticSource{identity: session.NewIdentity("t", session.Claims{"userId": "u-1"})})
}

func newRouterCtx(path string) *MockContext {
	ctx := NewMockContext()
	ctx.On("Path").Return(path)
	return ctx
}

func TestRouterAllowsPublicPath(t *testing.T) {
	middleware := routeguard.New(anonymousGuard())
	handler := middleware(func(ctx router.Context) error { return nil })

	ctx := newRouterCtx("/login")
	require.NoError(t, handler(ctx))
	assert.True(t, ctx.NextCalled)
}

func TestRouterStoresIdentity(t *testing.T) {
	middleware := routeguard.New(signedInGuard())
	handler := middleware(func(ctx router.Context) error { return nil })

	ctx := newRouterCtx("/dashboard")
	ctx.On("Locals", routeguard.DefaultContextKey, mock.AnythingOfType("*session.Identity")).Return(nil)

	require.NoError(t, handler(ctx))
	assert.True(t, ctx.NextCalled)
	ctx.AssertExpectations(t)
}

func TestRouterDenied(t *testing.T) {
	errDenied := errors.New("denied")
	var seen session.Decision
	var deniedPath string

	middleware := routeguard.NewWithDeniedHandler(anonymousGuard(),
		func(ctx router.Context, decision session.Decision) error {
			seen = decision
			return errDenied
		},
		routeguard.Config{
			OnDenied: func(path string, _ session.Decision) { deniedPath = path },
		},
	)
	handler := middleware(func(ctx router.Context) error { return nil })

	ctx := newRouterCtx("/settings")
	err := handler(ctx)
	assert.ErrorIs(t, err, errDenied)
	assert.False(t, ctx.NextCalled)
	assert.False(t, seen.Allowed)
	assert.Equal(t, "/login", seen.RedirectTo)
	assert.Equal(t, "/settings", deniedPath)
}

func TestRouterRedirectsToSignIn(t *testing.T) {
	middleware := routeguard.New(anonymousGuard())
	handler := middleware(func(ctx router.Context) error { return nil })

	ctx := newRouterCtx("/settings")
	ctx.On("Redirect", "/login", http.StatusFound).Return(nil)

	require.NoError(t, handler(ctx))
	assert.False(t, ctx.NextCalled)
	ctx.AssertExpectations(t)
}

func TestRouterContextEnricher(t *testing.T) {
	type ctxKey struct{}
	middleware := routeguard.New(signedInGuard(), routeguard.Config{
		ContextEnricher: func(c context.Context, identity *session.Identity) context.Context {
			return context.WithValue(c, ctxKey{}, identity.GetUserID())
		},
	})
	handler := middleware(func(ctx router.Context) error { return nil })

	ctx := newRouterCtx("/dashboard")
	ctx.On("Locals", routeguard.DefaultContextKey, mock.AnythingOfType("*session.Identity")).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("SetContext", mock.MatchedBy(func(c context.Context) bool {
		return c.Value(ctxKey{}) == "u-1"
	})).Return()

	require.NoError(t, handler(ctx))
	assert.True(t, ctx.NextCalled)
	ctx.AssertExpectations(t)
}

func TestRouterFilter(t *testing.T) {
	middleware := routeguard.New(anonymousGuard(), routeguard.Config{
		Filter: func(path string) bool { return path == "/dashboard/health" },
	})
	handler := middleware(func(ctx router.Context) error { return nil })

	ctx := newRouterCtx("/dashboard/health")
	require.NoError(t, handler(ctx))
	assert.True(t, ctx.NextCalled)
}

func newFiberApp(guard *session.Guard, cfg ...routeguard.Config) *fiber.App {
	app := fiber.New()
	app.Use(routeguard.Fiber(guard, cfg...))
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		identity, ok := routeguard.FiberIdentity(c)
		if !ok {
			return c.SendString("no identity")
		}
		fromCtx, _ := session.IdentityFromContext(c.UserContext())
		return c.SendString(identity.UserID + "|" + fromCtx.GetUserID())
	})
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.SendString("login page")
	})
	return app
}

func TestFiberRedirectsAnonymous(t *testing.T) {
	app := newFiberApp(anonymousGuard())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFiberPassesIdentity(t *testing.T) {
	app := newFiberApp(signedInGuard())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "u-1|u-1", string(body))
}

func TestFiberCustomStatus(t *testing.T) {
	app := newFiberApp(anonymousGuard(), routeguard.Config{RedirectStatus: http.StatusSeeOther})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func newChiRouter(guard *session.Guard) http.Handler {
	r := chi.NewRouter()
	r.Use(routeguard.HTTP(guard))
	r.Get("/dashboard/*", func(w http.ResponseWriter, r *http.Request) {
		identity, ok := session.IdentityFromContext(r.Context())
		if !ok {
			_, _ = io.WriteString(w, "no identity")
			return
		}
		_, _ = io.WriteString(w, identity.UserID)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "home")
	})
	return r
}

func TestHTTPRedirectsAnonymous(t *testing.T) {
	h := newChiRouter(anonymousGuard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home", rec.Body.String())
}

func TestHTTPPassesIdentity(t *testing.T) {
	h := newChiRouter(signedInGuard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", rec.Body.String())
}

func TestHTTPFollowsController(t *testing.T) {
	ctx := context.Background()
	c := session.NewController(nil, nil)
	h := newChiRouter(session.NewGuard(c))

	// Unresolved controller is anonymous
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/x", nil).WithContext(ctx))
	assert.Equal(t, http.StatusFound, rec.Code)
}
