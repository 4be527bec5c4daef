package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/api"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
	"github.com/mindcare/wellbeing-api/internal/core/service"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/config"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mindcare/wellbeing-api/internal/infrastructure/db/redis"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/db/sqlstore"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/http/handlers"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/llm"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

// app owns every long-lived resource of the process.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	echo       *echo.Echo
	dispatcher *queue.Dispatcher
	closers    []func(context.Context) error
}

// newApp connects storage and optional services and builds the router. A nil
// registry exposes the default Prometheus registry.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, registry *prometheus.Registry) (*app, error) {
	a := &app{cfg: cfg, log: log}
	checks := map[string]handlers.Check{}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	checks["database"] = store.Ping

	var pending queue.PendingMarker
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		checks["redis"] = func(ctx context.Context) error { return redisdb.Ping(ctx, rdb) }
		pending = redisdb.NewPendingMarker(rdb, 0)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	var model ports.TextGenerator = llm.Unavailable{}
	if cfg.AI.APIKey != "" {
		model = llm.NewOpenAIGenerator(llm.Config{APIKey: cfg.AI.APIKey, BaseURL: cfg.AI.BaseURL})
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set; AI features will report external service errors")
	}
	aiCfg := service.AIConfig{Model: cfg.AI.Model, Timeout: cfg.AI.Timeout}

	summaries := service.NewSummaryService(store, model, aiCfg, log)
	a.dispatcher = queue.NewDispatcher(cfg.AI.Workers, summaries, pending, log)

	opts := api.Options{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
		Checks:      checks,
	}
	if registry != nil {
		opts.Registerer = registry
		opts.Gatherer = registry
	}

	a.echo = api.NewRouter(api.Services{
		Auth:      service.NewAuthService(store.Users(), cfg.JWTSecret, cfg.TokenTTL),
		Journals:  service.NewJournalService(store, a.dispatcher, log),
		Questions: service.NewQuestionService(store, log),
		Tests:     service.NewTestService(store, a.dispatcher, log),
		Assistant: service.NewAssistantService(store, model, aiCfg, log),
		Summaries: summaries,
	}, opts)

	return a, nil
}

// openStore connects the configured storage driver and registers its closer.
func (a *app) openStore(ctx context.Context) (ports.Store, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverMongo:
		store, err := mongo.Open(ctx, mongo.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("mongo connected")
		return store, nil

	default:
		db, err := sqlstore.Open(ctx, a.sqlConfig())
		if err != nil {
			return nil, err
		}
		store := sqlstore.NewStore(db)
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		a.log.Info().Str("driver", a.cfg.Storage.Driver).Msg("database connected")
		return store, nil
	}
}

func (a *app) sqlConfig() sqlstore.Config {
	return sqlstore.Config{
		Driver:     a.cfg.Storage.Driver,
		DSN:        a.cfg.Storage.DSN,
		SQLitePath: a.cfg.Storage.SQLitePath,
		Migrations: a.cfg.Storage.Migrations,
		Logger:     a.log,
	}
}

// run serves HTTP until ctx is cancelled, then drains the server and the
// summary workers.
func (a *app) run(ctx context.Context) error {
	defer a.close()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	a.dispatcher.Start(workerCtx)

	addr := ":" + a.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Str("env", a.cfg.Env).Msg("server listening")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("error during shutdown")
	}

	stopWorkers()
	a.dispatcher.Wait()
	a.log.Info().Msg("server gracefully stopped")

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn().Err(err).Msg("close resource")
		}
	}
	a.closers = nil
}

// migrateOnly applies the schema of the configured store and returns.
func migrateOnly(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a := &app{cfg: cfg, log: log}
	defer a.close()
	_, err := a.openStore(ctx)
	return err
}
