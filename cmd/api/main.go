// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Tradepost HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire sessions, accounts, catalog, purchases and prices.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/tradepost/internal/api"
	"github.com/taibuivan/tradepost/internal/core/price"
	"github.com/taibuivan/tradepost/internal/core/product"
	"github.com/taibuivan/tradepost/internal/core/purchase"
	"github.com/taibuivan/tradepost/internal/platform/cache"
	"github.com/taibuivan/tradepost/internal/platform/config"
	"github.com/taibuivan/tradepost/internal/platform/constants"
	"github.com/taibuivan/tradepost/internal/platform/metrics"
	"github.com/taibuivan/tradepost/internal/platform/migration"
	pgstore "github.com/taibuivan/tradepost/internal/platform/postgres"
	redisstore "github.com/taibuivan/tradepost/internal/platform/redis"
	"github.com/taibuivan/tradepost/internal/users/auth"
	"github.com/taibuivan/tradepost/internal/users/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	recorder := metrics.New()

	sessionManager := session.NewManager(
		session.NewRedisDirectory(rdb),
		session.Options{TTL: cfg.SessionTTL},
		recorder,
		log,
	)

	authService := auth.NewService(auth.NewUserRepository(pool), sessionManager, cfg.SignupBalance, log)
	productService := product.NewService(product.NewPostgresRepository(pool), log)
	purchaseEngine := purchase.NewEngine(purchase.NewPostgresLedger(pool), purchase.Options{}, recorder, log)

	priceFeed := price.NewHTTPFeed(nil, price.FeedConfig{
		URL:         cfg.PriceFeedURL,
		AppID:       cfg.PriceFeedAppID,
		Currency:    cfg.PriceFeedCurrency,
		MinInterval: cfg.PriceFeedMinInterval,
	})
	priceService := price.NewService(
		cache.NewRedisStore(rdb, constants.RedisPrefixPriceCache),
		priceFeed,
		cfg.PriceFeedAppID+":"+cfg.PriceFeedCurrency,
		cfg.PriceCacheTTL,
		recorder,
		log,
	)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Price:     price.NewHandler(priceService),
		Product:   product.NewHandler(productService),
		Purchase:  purchase.NewHandler(purchaseEngine),
	}

	server := api.NewServer(cfg, log, recorder, sessionManager, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
