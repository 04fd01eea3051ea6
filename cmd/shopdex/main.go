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

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/app"
	"github.com/kailas-cloud/shopdex/internal/config"
	logpkg "github.com/kailas-cloud/shopdex/internal/logger"
	"github.com/kailas-cloud/shopdex/internal/metrics"
	chiTransport "github.com/kailas-cloud/shopdex/internal/transport/chi"
	"github.com/kailas-cloud/shopdex/internal/usecase/catalog"
	"github.com/kailas-cloud/shopdex/internal/version"
)

func main() {
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
	zap.ReplaceGlobals(logger)

	logger.Info("Starting shopdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("llm_configured", cfg.Intent.APIKey != ""),
	)

	ctx := context.Background()

	backend, err := app.OpenBackend(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open catalog store", zap.Error(err))
	}
	defer backend.Close()

	metrics.RegisterSearchMetrics()

	intents, err := app.NewIntents(&cfg.Intent, logger)
	if err != nil {
		logger.Fatal("Failed to build intent extractor", zap.Error(err))
	}
	services := app.NewServices(backend, intents, logger)

	if cfg.Catalog.SeedFile != "" {
		seedCatalog(ctx, services.Catalog, cfg.Catalog.SeedFile, logger)
	}

	server := chiTransport.NewServer(services.Catalog, services.Search, services.Health, logger, chiTransport.Options{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

// seedCatalog loads sample products into an empty catalog. Failures are
// logged and never stop the server.
func seedCatalog(ctx context.Context, svc *catalog.Service, path string, logger *zap.Logger) {
	records, err := catalog.LoadSeedFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Seed file not found", zap.String("path", path))
			return
		}
		logger.Error("Failed to read seed file", zap.Error(err))
		return
	}
	report, err := svc.Seed(ctx, records)
	if err != nil {
		logger.Error("Failed to seed catalog", zap.Error(err))
		return
	}
	if !report.Skipped {
		logger.Info("Sample products loaded",
			zap.Int("created", report.Created),
			zap.Int("failed", report.Failed),
		)
	}
}
