// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

// Command api is the entry point for the Courtrecord HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to MongoDB.
//  4. Connect to Redis.
//  5. Ensure collection indexes (idempotent).
//  6. Wire HTTP handlers.
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

	"github.com/mkoers/courtrecord/internal/api"
	"github.com/mkoers/courtrecord/internal/catalog/cache"
	"github.com/mkoers/courtrecord/internal/catalog/evidence"
	"github.com/mkoers/courtrecord/internal/catalog/game"
	"github.com/mkoers/courtrecord/internal/catalog/gamecase"
	"github.com/mkoers/courtrecord/internal/catalog/profile"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/config"
	"github.com/mkoers/courtrecord/internal/platform/constants"
	"github.com/mkoers/courtrecord/internal/platform/mongodb"
	redisstore "github.com/mkoers/courtrecord/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "courtrecord"))
	slog.SetDefault(log)

	log.Info("[Courtrecord] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "courtrecord"))
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

	// ── 3. MongoDB ────────────────────────────────────────────────────────
	client, err := mongodb.Connect(startupCtx, cfg.MongoURL, log)
	must(log, err, "connect to mongodb")
	defer func() {
		log.Info("closing mongodb client")
		if cerr := mongodb.Disconnect(client, 10*time.Second); cerr != nil {
			log.Error("mongodb close error", slog.Any("error", cerr))
		}
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

	// ── 5. Collection store & indexes ─────────────────────────────────────
	catalogStore := store.NewMongo(client.Database(cfg.MongoDatabase))
	must(log, catalogStore.EnsureIndexes(startupCtx), "ensure indexes")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return mongodb.Ping(context.Background(), client)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Collection Wiring ──────────────────────────────────────────────
	entities := cache.New(rdb)
	baseURL := cfg.BaseURL()

	evidenceHandler := evidence.NewHandler(evidence.NewService(catalogStore, entities, log), baseURL)
	caseHandler := gamecase.NewHandler(gamecase.NewService(catalogStore, entities, log), baseURL)
	profileHandler := profile.NewHandler(profile.NewService(catalogStore, entities, log), baseURL)
	gameHandler := game.NewHandler(game.NewService(catalogStore, entities, log), baseURL)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Evidence:  evidenceHandler,
		Cases:     caseHandler,
		Profiles:  profileHandler,
		Games:     gameHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

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
