package routeguard

import (
	"net/http"

	"github.com/bizzai/go-session"
)

// HTTP returns net/http middleware. Handlers read the identity with
// session.IdentityFromContext.
func HTTP(guard *session.Guard, config ...Config) func(http.Handler) http.Handler {
	cfg := getDefaultConfig(config...)
	enrich := cfg.ContextEnricher
	if enrich == nil {
		enrich = session.WithIdentity
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if cfg.skip(path) {
				next.ServeHTTP(w, r)
				return
			}

			decision := guard.Check(path)
			if !decision.Allowed {
				cfg.denied(path, decision)
				http.Redirect(w, r, decision.RedirectTo, cfg.RedirectStatus)
				return
			}

			if decision.Identity != nil {
				r = r.WithContext(enrich(r.Context(), decision.Identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}
