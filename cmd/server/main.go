package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cardswipe/cardswipe/internal/app"
	"github.com/cardswipe/cardswipe/internal/cache"
	"github.com/cardswipe/cardswipe/internal/config"
	"github.com/cardswipe/cardswipe/internal/db"
	"github.com/cardswipe/cardswipe/internal/logger"
	"github.com/cardswipe/cardswipe/internal/server"
	"github.com/cardswipe/cardswipe/internal/service/auth"
	"github.com/cardswipe/cardswipe/internal/service/discover"
	"github.com/cardswipe/cardswipe/internal/service/inventory"
	"github.com/cardswipe/cardswipe/internal/service/match"
	"github.com/cardswipe/cardswipe/internal/service/swipe"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	authService := auth.NewService(appCtx, cfg.JWT.Secret, cfg.JWT.TTL)
	authMW := authService.Middleware()

	registrars := []server.Registrar{
		auth.NewRegistrar(authService),
		inventory.NewRegistrar(inventory.NewService(appCtx), authMW),
		discover.NewRegistrar(discover.NewService(appCtx), authMW),
		swipe.NewRegistrar(swipe.NewService(appCtx), authMW),
		match.NewRegistrar(match.NewService(appCtx), authMW),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	srv := server.New(cfg, registrars...)
	log.Info("starting HTTP server", "addr", srv.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(srv)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx, srv); err != nil {
			log.Error("failed to shut down HTTP server", "err", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", "err", err)
		}
	}
}
