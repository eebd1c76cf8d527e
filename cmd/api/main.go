package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ressKim-io/EvoGuard/emotion-service/internal/adapter/http/router"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/app"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/config"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/logger"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/infrastructure/metrics"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/ml/artifact"
	"github.com/ressKim-io/EvoGuard/emotion-service/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	// The server refuses to start without a model
	model, err := artifact.Load(cfg.Model.Path)
	if err != nil {
		log.Error("Failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		return fmt.Errorf("failed to load model: %w", err)
	}
	log.Info("Model loaded",
		zap.String("path", cfg.Model.Path),
		zap.String("model_id", model.Metadata.ModelID),
		zap.Strings("labels", model.Labels),
		zap.Int("features", model.Features.Dim()),
	)

	db, err := app.OpenDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer app.CloseDatabase(db)

	redisClient := app.OpenRedis(&cfg.Redis, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: router.Setup(router.Deps{
			DB:          db,
			Redis:       redisClient,
			Model:       model,
			Predictor:   app.NewEngine(cfg, model, redisClient, log),
			Translation: app.TranslationHealth(&cfg.Translation),
			Metrics:     metrics.New(reg),
			Gatherer:    reg,
			Logger:      log,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("version", version.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
