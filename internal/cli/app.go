package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bizzai/go-session"
	"github.com/bizzai/go-session/activitymap"
	"github.com/bizzai/go-session/dashboard"
	"github.com/bizzai/go-session/identityapi"
	"github.com/bizzai/go-session/internal/config"
	"github.com/bizzai/go-session/metrics"
	"github.com/bizzai/go-session/store"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const userAgent = "bizzctl"

// deps is everything a command needs. Commands receive it already started.
type deps struct {
	cfg        *config.Config
	logger     session.Logger
	controller *session.Controller
	guard      *session.Guard
	dashboard  *dashboard.Client
	registry   *prometheus.Registry
	prompter   Prompter
	closers    []func() error
}

// Close releases the store resources.
func (d *deps) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// newLogger builds the pretty console logger used by every command.
func newLogger(cfg *config.Config) *glog.BaseLogger {
	if cfg.Verbose {
		return glog.NewLogger(
			glog.WithLoggerTypePretty(),
			glog.WithLevel(glog.Trace),
			glog.WithName("bizzctl"),
			glog.WithAddSource(false),
			glog.WithRichErrorHandler(errors.ToSlogAttributes),
		)
	}
	return glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithName("bizzctl"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
}

// setup loads the configuration and wires the session stack. The returned
// deps have already resolved the stored session.
func setup(ctx context.Context) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	lgr := newLogger(cfg)
	return newDeps(ctx, cfg, lgr.GetLogger("session"))
}

func newDeps(ctx context.Context, cfg *config.Config, logger session.Logger) (*deps, error) {
	d := &deps{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		prompter: huhPrompter{},
	}

	st, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		d.closers = append(d.closers, closer)
	}

	api := identityapi.New(cfg.APIURL,
		identityapi.WithTimeout(cfg.RequestTimeout),
		identityapi.WithUserAgent(userAgent),
		identityapi.WithLogger(logger),
	)

	sinks := session.ActivitySinks{metrics.NewCollector(d.registry)}
	if cfg.ActivityLog != "" {
		f, err := os.OpenFile(cfg.ActivityLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		d.closers = append(d.closers, f.Close)
		sinks = append(sinks, activitymap.NewJSONLines(f, activitymap.WithRedactedKeys("email")))
	}

	d.controller = session.NewController(st, api,
		session.WithLogger(logger),
		session.WithActivitySink(sinks),
	)
	d.guard = session.NewGuard(d.controller, session.WithGuardLogger(logger))
	d.dashboard = dashboard.New(cfg.DashboardAPIURL, d.controller,
		dashboard.WithTrainerURL(cfg.TrainerURL),
		dashboard.WithTimeout(cfg.RequestTimeout),
		dashboard.WithLogger(logger),
	)

	if err := d.controller.Start(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// openStore builds the configured session store. The closer may be nil.
func openStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	key := store.WithKey(cfg.StoreKey)

	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemory(key), nil, nil

	case config.StoreFile:
		return store.NewFile(cfg.StorePath, key), nil, nil

	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o700); err != nil {
			return nil, nil, err
		}
		sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+cfg.StorePath+"?cache=shared")
		if err != nil {
			return nil, nil, err
		}
		sqldb.SetMaxOpenConns(1)

		db := bun.NewDB(sqldb, sqlitedialect.New())
		st := store.NewBun(db, key)
		if err := st.CreateTable(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return st, db.Close, nil

	case config.StoreRedis:
		client, err := store.NewRedisClient(ctx, store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client, key), client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
}
