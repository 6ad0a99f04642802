package session_test

import (
	"testing"

	"github.com/bizzai/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	identity *session.Identity
}

func (s staticSource) Identity() (*session.Identity, bool) {
	return s.identity, s.identity != nil
}

func TestGuardProtects(t *testing.T) {
	g := session.NewGuard(staticSource{})

	tests := []struct {
		path string
		want bool
	}{
		{"/dashboard", true},
		{"/dashboard/", true},
		{"/dashboard/stats", true},
		{"/dashboard?tab=1", true},
		{"dashboard", true},
		{"/pricing", true},
		{"/settings", true},
		{"/train-ai", true},
		{"/feedback", true},
		{"/business-setup", true},
		{"/", false},
		{"/login", false},
		{"/signup", false},
		{"/dashboards", false},
		{"/settings-old", false},
		{"/x/../dashboard", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Protects(tt.path))
		})
	}
}

func TestGuardCheck(t *testing.T) {
	identity := session.NewIdentity("tok", session.Claims{"userId": "u"})

	anon := session.NewGuard(staticSource{}, session.WithGuardLogger(nopLogger{}))
	decision := anon.Check("/dashboard")
	assert.False(t, decision.Allowed)
	assert.Equal(t, session.DefaultSignInPath, decision.RedirectTo)
	assert.Nil(t, decision.Identity)

	decision = anon.Check("/login")
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.RedirectTo)

	authed := session.NewGuard(staticSource{identity: identity})
	decision = authed.Check("/dashboard")
	assert.True(t, decision.Allowed)
	assert.Same(t, identity, decision.Identity)

	decision = authed.Check("/")
	assert.True(t, decision.Allowed)
	assert.Same(t, identity, decision.Identity)
}

func TestGuardOptions(t *testing.T) {
	g := session.NewGuard(nil,
		session.WithSignInPath("/auth/sign-in"),
		session.WithProtectedPaths("/admin", " ", "reports/"),
	)
	assert.Equal(t, "/auth/sign-in", g.SignInPath())
	assert.True(t, g.Protects("/admin/users"))
	assert.True(t, g.Protects("/reports"))
	assert.False(t, g.Protects("/dashboard"))

	decision := g.Check("/admin")
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/auth/sign-in", decision.RedirectTo)
}

func TestGuardRequire(t *testing.T) {
	_, err := session.NewGuard(staticSource{}).Require()
	require.Error(t, err)
	assert.True(t, session.IsNotAuthenticated(err))

	identity := session.NewIdentity("tok", session.Claims{"sub": "s"})
	got, err := session.NewGuard(staticSource{identity: identity}).Require()
	require.NoError(t, err)
	assert.Same(t, identity, got)
}

func TestGuardTreatsUnresolvedAsAnonymous(t *testing.T) {
	c := session.NewController(nil, nil, session.WithLogger(nopLogger{}))
	decision := session.NewGuard(c).Check("/settings")
	assert.False(t, decision.Allowed)
}
