package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"homeclean/internal/app"
	"homeclean/internal/config"
	"homeclean/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	a, err := app.New(ctx, cfg, zlog, store)
	if err != nil {
		zlog.Fatal("build app", zap.Error(err))
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		zlog.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
	zlog.Info("server stopped")
}
