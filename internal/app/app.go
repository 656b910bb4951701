package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/server"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// Application aggregates shared infrastructure (store, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	closers []func() error
	redis   *redis.Client
	http    *http.Server

	broadcaster *question.Broadcaster
	bgCancels   []context.CancelFunc
}

// New bootstraps logger, store, optional Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Str("store", cfg.StoreDriver).Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}

	store, pinger, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var (
		cache     question.CategoryCache
		publisher question.EventPublisher
		feed      http.HandlerFunc
	)
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		cache = question.NewCache(a.redis, cfg.Cache.CategoryTTL)
		publisher = question.NewRedisPublisher(a.redis, cfg.Redis.EventsChannel)

		hub := ws.NewHub(logger.With().Str("component", "ws_hub").Logger())
		a.broadcaster = question.NewBroadcaster(a.redis, hub, cfg.Redis.EventsChannel, logger)
		feed = question.NewFeedHandler(hub, logger).HandleWebSocket
	} else {
		logger.Warn().Msg("REDIS_ADDR not configured; category cache and change feed disabled")
	}

	questionSvc := question.NewService(store, cache, publisher, question.ServiceOptions{}, logger)
	questionHTTP := question.NewHTTPHandler(questionSvc, logger)

	deps := []server.Pinger{pinger}
	if a.redis != nil {
		deps = append(deps, redisPinger{a.redis})
	}
	a.http = server.NewHTTPServer(cfg, logger, questionHTTP, feed, deps...)
	return a, nil
}

// openStore connects the configured store driver.
func (a *Application) openStore(ctx context.Context) (question.Store, server.Pinger, error) {
	switch a.cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, a.cfg.Postgres.ConnString())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		store := repository.NewPostgresStore(pool)
		return store, store, nil

	case config.DriverSQLite:
		store, err := repository.OpenSQLite(ctx, a.cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, store, nil

	case config.DriverMemory:
		store := repository.NewMemoryStore(repository.DefaultCategories, nil)
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", a.cfg.StoreDriver)
	}
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Error().Err(err).Msg("store shutdown error")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.broadcaster.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("question broadcaster stopped")
			}
		}()
	}
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
