package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"outreach/internal/config"
	"outreach/internal/logging"
	"outreach/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.IsDev())

	deps, err := server.BuildDeps(cfg)
	if err != nil {
		log.Fatalf("Failed to build dependencies: %v", err)
	}

	if cfg.IsDemoMode() {
		slog.Warn("WEBHOOK_URL is not set, running in demo mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if deps.Monitor != nil {
		go deps.Monitor.Start(ctx)
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(deps)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	slog.Info("server exited")
}
