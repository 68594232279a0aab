package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"slambook_backend/internal/app/di"
	"slambook_backend/internal/platform/config"
	platformdb "slambook_backend/internal/platform/db"
	platformredis "slambook_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env → 環境変数 → Config
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.Log.NewLogger())

	// SECRET_KEYチェック（開発中の注意喚起）
	if cfg.JWT.UsesDevSecret() {
		if cfg.App.IsProduction() {
			return errors.New("SECRET_KEY must be set in production")
		}
		slog.Warn("SECRET_KEY is not set. Set a strong secret in production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB接続
	db, err := platformdb.Open(cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}()
	}

	// Redis（任意）
	rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
		if cfg.DB.RunMigrations {
			if err := di.NewStatisticsCache(rdb, cfg.Cache).Flush(ctx); err != nil {
				slog.Warn("failed to flush statistics cache", "error", err)
			}
		}
	}

	engine, err := di.NewApp(cfg, db, rdb)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
