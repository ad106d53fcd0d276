package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"

	"github.com/dimitrije/socketkey-api/internal/config"
	"github.com/dimitrije/socketkey-api/internal/handlers"
	"github.com/dimitrije/socketkey-api/internal/logger"
	authmw "github.com/dimitrije/socketkey-api/internal/middleware"
	"github.com/dimitrije/socketkey-api/internal/services"
	"github.com/dimitrije/socketkey-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		File:        cfg.Log.File,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keyStore, err := store.Open(ctx, store.Options{
		Backend:        cfg.Store.Backend,
		RedisURL:       cfg.Store.RedisURL,
		RedisKeyPrefix: cfg.Store.RedisKeyPrefix,
		DatabaseURL:    cfg.Store.DatabaseURL,
		BoltPath:       cfg.Store.BoltPath,
	}, logg)
	if err != nil {
		logg.Fatal("failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer keyStore.Close()

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	apiKeyService := services.NewAPIKeyService(keyStore, cfg.DefaultKeepAliveTimeout, logg.Named("apikey"))

	apiKeyHandler := handlers.NewAPIKeyHandler(apiKeyService, logg.Named("http"))

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", authmw.APIKeyHeader},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	api.Get("/keys/current", apiKeyHandler.Info)
	api.Get("/keys/current/valid", apiKeyHandler.Validate)
	api.Post("/keys/current/extend", apiKeyHandler.Extend)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))
	protected.Post("/keys", apiKeyHandler.Issue)
	protected.Post("/custom-keys", apiKeyHandler.IssueCustom)

	keyed := api.Group("")
	keyed.Use(authmw.APIKeyAuth(apiKeyService, cfg.KeepAliveOnUse))
	keyed.Get("/session", apiKeyHandler.Session)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	app.Get("/metrics", handlers.Metrics())

	go store.RunCleanup(ctx, keyStore, cfg.CleanupInterval, logg.Named("cleanup"))

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logg.Info("server starting",
			zap.String("addr", addr),
			zap.String("store", cfg.Store.Backend),
			zap.Duration("default_timeout", cfg.DefaultKeepAliveTimeout),
		)
		if err := app.Run(addr); err != nil {
			logg.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server")
}
