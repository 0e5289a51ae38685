package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"autosales/internal/amqp"
	"autosales/internal/cache"
	"autosales/internal/cli"
	"autosales/internal/core"
	apphttp "autosales/internal/http"
	"autosales/internal/log"
	"autosales/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, nil)

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	// The dataset is read once; any failure here is fatal.
	loader, release, err := cli.OpenDatasetLoader(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open dataset", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.DatasetTimeout)
	dataset, err := services.LoadDataset(loadCtx, loader, cfg.DataBackend, logger)
	cancelLoad()
	release()
	if err != nil {
		logger.Error("Failed to load dataset",
			log.FieldError, err,
			log.FieldBackend, cfg.DataBackend,
			log.FieldOperation, log.OpLoad,
			"error_type", log.ErrorType(err))
		os.Exit(1)
	}

	results := cache.NewLRUCache[core.Result](cfg.CacheSize, cfg.CacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(results)
	if err := cacheManager.StartCleanup(cfg.CacheCleanupSchedule); err != nil {
		logger.Error("Failed to schedule cache cleanup", log.FieldError, err)
		os.Exit(1)
	}
	defer cacheManager.Stop()

	// View events are optional; the dashboard works without a broker.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, view events disabled",
				log.FieldError, err,
				log.FieldComponent, log.ComponentAMQP)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	dashboard := services.NewDashboardService(dataset, results, publisher, logger)
	srv := apphttp.NewServer(cfg.Addr(), dashboard, apphttp.Options{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Logger:            logger,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting autosales server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			log.FieldRows, dataset.Len(),
			log.FieldYears, len(dataset.Years()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := dashboard.Close(shutdownCtx); err != nil {
			logger.Warn("Pending view events dropped", log.FieldError, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
