// Package routeguard adapts session.Guard to go-router, fiber and net/http
// middleware. Requests for protected paths without an identity are
// redirected to the sign in path; allowed requests carry the identity.
package routeguard

import (
	"context"
	"net/http"

	"github.com/bizzai/go-session"
)

const DefaultContextKey = "identity"

type Config struct {
	// Filter skips the guard when it returns true.
	Filter func(path string) bool
	// ContextKey is the locals key the identity is stored under.
	ContextKey string
	// RedirectStatus defaults to 302.
	RedirectStatus int
	// ContextEnricher propagates the identity to the request context.
	// The net/http adapter always uses session.WithIdentity.
	ContextEnricher func(ctx context.Context, identity *session.Identity) context.Context
	// OnDenied observes denied requests.
	OnDenied func(path string, decision session.Decision)
}

func getDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.RedirectStatus == 0 {
		cfg.RedirectStatus = http.StatusFound
	}

	return cfg
}

func (cfg Config) skip(path string) bool {
	return cfg.Filter != nil && cfg.Filter(path)
}

func (cfg Config) denied(path string, decision session.Decision) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(path, decision)
	}
}
