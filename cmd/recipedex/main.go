package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/app"
	"github.com/kailas-cloud/recipedex/internal/config"
	logpkg "github.com/kailas-cloud/recipedex/internal/logger"
	"github.com/kailas-cloud/recipedex/internal/metrics"
	chiTransport "github.com/kailas-cloud/recipedex/internal/transport/chi"
	"github.com/kailas-cloud/recipedex/internal/version"
)

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recipedex API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)

	ctx := context.Background()
	a, err := app.Open(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open catalog store", zap.Error(err))
	}
	defer a.Close()
	logger.Info("Connected to database")

	metrics.RegisterIndexMetrics()

	if cfg.Search.BuildOnStart {
		if _, err := a.Search.Rebuild(ctx); err != nil {
			// Queries build the index lazily, so a failed warm-up is not fatal
			logger.Warn("Initial index build failed", zap.Error(err))
		}
	}

	server := chiTransport.NewServer(a.Catalog, a.Search, a.Personalize, a.Health, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
