package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arcadia-mall/arcadia-admin/internal/app"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/cache"
	"github.com/arcadia-mall/arcadia-admin/internal/platform/db"
	"github.com/arcadia-mall/arcadia-admin/internal/shared"
	"github.com/arcadia-mall/arcadia-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	pages := cache.NewPageCache(redisClient, cfg.PageCacheTTL, logger)
	auditWriter := shared.NewAuditLogger(pool)

	srv, mux := jobs.NewServer(cfg.RedisAddr, auditWriter, pages, logger)

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		srv.Shutdown()
	}()

	logger.Info("worker starting", slog.String("redis", cfg.RedisAddr))
	if err := srv.Run(mux); err != nil {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
