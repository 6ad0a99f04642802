package routeguard

import (
	"github.com/bizzai/go-session"
	"github.com/goliatone/go-router"
)

// DeniedHandler responds to a denied go-router request.
type DeniedHandler func(ctx router.Context, decision session.Decision) error

// New returns go-router middleware. Denied requests are redirected to the
// guard's sign in path.
func New(guard *session.Guard, config ...Config) router.MiddlewareFunc {
	return NewWithDeniedHandler(guard, nil, config...)
}

// NewWithDeniedHandler is New with a custom response for denied requests.
func NewWithDeniedHandler(guard *session.Guard, onDenied DeniedHandler, config ...Config) router.MiddlewareFunc {
	cfg := getDefaultConfig(config...)
	if onDenied == nil {
		onDenied = func(ctx router.Context, decision session.Decision) error {
			return ctx.Redirect(decision.RedirectTo, cfg.RedirectStatus)
		}
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			path := ctx.Path()
			if cfg.skip(path) {
				return ctx.Next()
			}

			decision := guard.Check(path)
			if !decision.Allowed {
				cfg.denied(path, decision)
				return onDenied(ctx, decision)
			}

			if decision.Identity != nil {
				ctx.Locals(cfg.ContextKey, decision.Identity)
				if cfg.ContextEnricher != nil {
					ctx.SetContext(cfg.ContextEnricher(ctx.Context(), decision.Identity))
				}
			}

			return ctx.Next()
		}
	}
}
