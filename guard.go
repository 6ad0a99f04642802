package session

import (
	"path"
	"strings"
)

const DefaultSignInPath = "/login"

// DefaultProtectedPaths are the dashboard views that need a session.
var DefaultProtectedPaths = []string{
	"/dashboard",
	"/pricing",
	"/settings",
	"/train-ai",
	"/feedback",
	"/business-setup",
}

// GuardOption customizes Guard construction.
type GuardOption func(*Guard)

// WithSignInPath sets where denied requests are sent.
func WithSignInPath(p string) GuardOption {
	return func(g *Guard) {
		if p != "" {
			g.signInPath = p
		}
	}
}

// WithProtectedPaths replaces the protected path set.
func WithProtectedPaths(paths ...string) GuardOption {
	return func(g *Guard) {
		g.protected = normalizePaths(paths)
	}
}

// WithGuardLogger overrides the logger.
func WithGuardLogger(logger Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed    bool
	RedirectTo string
	Identity   *Identity
}

// Guard gates protected views on the identity exposed by an IdentitySource.
// It holds no session state of its own.
type Guard struct {
	source     IdentitySource
	signInPath string
	protected  []string
	logger     Logger
}

// NewGuard returns a Guard reading identities from source.
func NewGuard(source IdentitySource, opts ...GuardOption) *Guard {
	g := &Guard{
		source:     source,
		signInPath: DefaultSignInPath,
		protected:  normalizePaths(DefaultProtectedPaths),
		logger:     defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SignInPath returns the redirect target for denied requests.
func (g *Guard) SignInPath() string {
	return g.signInPath
}

// Protects reports whether p is a protected path or below one.
func (g *Guard) Protects(p string) bool {
	p = cleanPath(p)
	for _, prefix := range g.protected {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// Check decides whether p may be rendered.
func (g *Guard) Check(p string) Decision {
	identity, ok := g.identity()
	if !g.Protects(p) {
		return Decision{Allowed: true, Identity: identity}
	}

	if !ok {
		g.logger.Debug("guard denied request, redirecting", "path", p, "to", g.signInPath)
		return Decision{Allowed: false, RedirectTo: g.signInPath}
	}

	return Decision{Allowed: true, Identity: identity}
}

// Require returns the current identity or ErrNotAuthenticated.
func (g *Guard) Require() (*Identity, error) {
	identity, ok := g.identity()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return identity, nil
}

func (g *Guard) identity() (*Identity, bool) {
	if g.source == nil {
		return nil, false
	}
	identity, ok := g.source.Identity()
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, cleanPath(p))
	}
	return out
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
