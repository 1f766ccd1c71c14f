package main

import (
	"StampVault/internal/assets"
	"StampVault/internal/bootstrap"
	"StampVault/internal/config"
	"StampVault/internal/handlers"
	"StampVault/internal/middleware"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	//context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, cleanup, err := bootstrap.Open(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize storage", "error", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			sugar.Errorw("failed to close database", "error", err)
		}
	}()

	// офлайн-кэш: сначала новая версия, затем удаление старых
	cache := assets.NewCache(cfg.AssetCacheDir, sugar)
	if err := cache.Install(); err != nil {
		sugar.Warnw("asset cache install failed, serving bundled assets", "error", err)
	} else if err := cache.Activate(); err != nil {
		sugar.Warnw("asset cache activate failed", "error", err)
	}

	h := handlers.NewHandler(app, cache)
	defer h.Close()

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"DatabaseDSN", cfg.DatabaseDSN,
		"DataDir", cfg.DataDir,
		"Autofill", cfg.Autofill,
	)

	srv := &http.Server{Addr: addr, Handler: h.Router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("Server failed", "error", err)
	}
}
