package routeguard

import (
	"github.com/bizzai/go-session"
	"github.com/gofiber/fiber/v2"
)

// Fiber returns fiber middleware. The identity is stored in c.Locals and in
// the user context.
func Fiber(guard *session.Guard, config ...Config) fiber.Handler {
	cfg := getDefaultConfig(config...)
	enrich := cfg.ContextEnricher
	if enrich == nil {
		enrich = session.WithIdentity
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if cfg.skip(path) {
			return c.Next()
		}

		decision := guard.Check(path)
		if !decision.Allowed {
			cfg.denied(path, decision)
			return c.Redirect(decision.RedirectTo, cfg.RedirectStatus)
		}

		if decision.Identity != nil {
			c.Locals(cfg.ContextKey, decision.Identity)
			c.SetUserContext(enrich(c.UserContext(), decision.Identity))
		}
		return c.Next()
	}
}

// FiberIdentity reads the identity stored by Fiber.
func FiberIdentity(c *fiber.Ctx, key ...string) (*session.Identity, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	identity, ok := c.Locals(k).(*session.Identity)
	return identity, ok && identity != nil
}
