package cli

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bizzai/go-session"
	"github.com/bizzai/go-session/metrics"
	"github.com/bizzai/go-session/middleware/routeguard"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views behind the session guard",
	Long: `serve exposes the dashboard views as JSON endpoints. Protected views
redirect to /login until a session exists. Prometheus metrics are served
at /metrics.`,
	Run: run(runServe),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, d *deps, w io.Writer) int {
	app := newServer(d)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	d.logger.Info("serving dashboard views", "addr", d.cfg.ListenAddr, "state", d.controller.State().String())
	if err := app.Listen(d.cfg.ListenAddr); err != nil {
		return reportError(w, err)
	}
	return exitOK
}

type viewResponse struct {
	View     string       `json:"view"`
	Identity identityView `json:"identity"`
}

func newServer(d *deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Use(routeguard.Fiber(d.guard, routeguard.Config{
		OnDenied: func(path string, decision session.Decision) {
			d.logger.Info("redirecting to sign in", "path", path, "to", decision.RedirectTo)
		},
	}))

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(d.registry)))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		if d.controller.IsAuthenticated() {
			return c.Redirect(session.DefaultProtectedPaths[0], http.StatusFound)
		}
		return c.Redirect(d.guard.SignInPath(), http.StatusFound)
	})

	app.Get(d.guard.SignInPath(), func(c *fiber.Ctx) error {
		identity, _ := d.controller.Identity()
		return c.JSON(fiber.Map{
			"view":     "login",
			"identity": newIdentityView(d.controller.State(), identity, time.Now()),
			"hint":     "run \"" + loginCommand + "\" to sign in",
		})
	})

	// reload picks up a session written by another bizzctl process
	app.Post("/session/reload", func(c *fiber.Ctx) error {
		if err := d.controller.Start(c.UserContext()); err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		identity, _ := d.controller.Identity()
		return c.JSON(newIdentityView(d.controller.State(), identity, time.Now()))
	})

	app.Post("/logout", func(c *fiber.Ctx) error {
		if err := d.controller.SignOut(c.UserContext()); err != nil {
			d.logger.Error("sign out failed", "error", err)
		}
		return c.Redirect(d.guard.SignInPath(), http.StatusFound)
	})

	for _, p := range session.DefaultProtectedPaths {
		app.Get(p, dashboardView(d, strings.TrimPrefix(p, "/")))
	}

	return app
}

func dashboardView(d *deps, name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, _ := routeguard.FiberIdentity(c)
		return c.JSON(viewResponse{
			View:     name,
			Identity: newIdentityView(d.controller.State(), identity, time.Now()),
		})
	}
}
