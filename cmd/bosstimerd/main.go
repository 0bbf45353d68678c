package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/bosstimers/internal/api"
	"github.com/udisondev/bosstimers/internal/besttime"
	"github.com/udisondev/bosstimers/internal/config"
	"github.com/udisondev/bosstimers/internal/db"
	"github.com/udisondev/bosstimers/internal/feed"
	"github.com/udisondev/bosstimers/internal/game/boss"
	"github.com/udisondev/bosstimers/internal/game/dispatch"
	"github.com/udisondev/bosstimers/internal/game/slots"
	"github.com/udisondev/bosstimers/internal/settings"
)

const DefaultConfigPath = "config/bosstimers.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := DefaultConfigPath
	if p := os.Getenv(config.EnvPrefix + "CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("bosstimerd starting",
		"logLevel", cfg.LogLevel,
		"httpAddr", cfg.HTTPAddr,
		"storage", cfg.Storage.Backend,
		"displayMode", cfg.Options.DisplayMode)

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	bestTimes, err := besttime.New(boss.All(), store)
	if err != nil {
		store.close()
		return fmt.Errorf("binding best times: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	checks := make(map[string]api.Pinger)
	if store.check != nil {
		checks[store.backend] = store.check
	}
	if store.run != nil {
		g.Go(func() error {
			defer store.close()
			return ignoreCanceled(store.run(gctx))
		})
	}

	manager := slots.NewManager(bestTimes, nil)
	engine := dispatch.NewEngine(dispatch.New(manager, cfg.Options, nil), cfg.EventBuffer)
	checks["engine"] = api.PingFunc(func(context.Context) error {
		select {
		case <-engine.Done():
			return dispatch.ErrEngineStopped
		default:
			return nil
		}
	})

	srv := api.New(cfg.HTTPAddr, logger, api.Deps{
		Engine: engine,
		Feed:   feed.NewHandler(engine),
		Checks: checks,
	})

	g.Go(func() error {
		if err := engine.Run(gctx); err != nil {
			return fmt.Errorf("timer engine: %w", err)
		}
		return nil
	})

	if cfg.TickInterval > 0 {
		g.Go(func() error {
			if err := engine.RunTicker(gctx, cfg.TickInterval); err != nil {
				return fmt.Errorf("tick source: %w", err)
			}
			return nil
		})
	}

	watcher, err := config.NewWatcher(cfgPath, cfg.Options)
	if err != nil {
		slog.Warn("config hot reload disabled", "path", cfgPath, "error", err)
	} else {
		g.Go(func() error {
			err := watcher.Run(gctx, func(ch config.Change) {
				for _, key := range ch.Keys {
					if err := engine.Submit(gctx, dispatch.ConfigChanged{Key: key, Options: ch.Options}); err != nil {
						slog.Warn("config change not applied", "key", key, "error", err)
					}
				}
			})
			return ignoreCanceled(err)
		})
	}

	g.Go(func() error {
		slog.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("bosstimerd stopped")
	return nil
}

// storage is an opened settings backend. run is its background loop, nil
// when it has none; nothing is started until the caller decides to.
type storage struct {
	settings.Settings
	backend string
	run     func(ctx context.Context) error
	check   api.Pinger
	close   func()
}

// openStorage builds the settings backend named in cfg.
func openStorage(ctx context.Context, cfg config.Config) (storage, error) {
	st := storage{backend: cfg.Storage.Backend, close: func() {}}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		slog.Warn("best times are kept in memory and lost on exit")
		st.Settings = settings.NewMemory()
		return st, nil

	case config.BackendFile:
		f, err := settings.OpenFile(cfg.Storage.FilePath)
		if err != nil {
			return storage{}, fmt.Errorf("opening best time file: %w", err)
		}
		slog.Info("best times file opened", "path", cfg.Storage.FilePath)
		st.Settings = f
		return st, nil

	case config.BackendPostgres:
		dsn := cfg.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			return storage{}, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("database connected", "host", cfg.Database.Host, "db", cfg.Database.DBName)

		if err := db.RunMigrations(ctx, dsn); err != nil {
			database.Close()
			return storage{}, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		cache := settings.NewCached(db.NewBestTimeRepository(database.Pool()), cfg.Storage.FlushInterval)
		if err := cache.Load(ctx); err != nil {
			database.Close()
			return storage{}, err
		}

		st.Settings = cache
		st.run = cache.Run
		st.check = database
		st.close = database.Close
		return st, nil

	default:
		return storage{}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
