package main

import (
	"context"
	"errors"
	"os"

	"autosales/internal/amqp"
	"autosales/internal/cli"
	"autosales/internal/config"
	"autosales/internal/log"
	"autosales/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting autosales-worker", log.FieldOperation, log.OpStartup)

	// The worker only needs sqlite for its counters, whatever the web backend is.
	cfg := cli.LoadAndValidateConfig(logger, func(c *config.Config) {
		if c.DataBackend == config.BackendSQLite {
			c.DataBackend = config.BackendCSV
		}
	})
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker", "error_type", log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err, log.FieldComponent, log.ComponentAMQP)
		repo.Close()
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	w := worker.NewViewStatsWorker(repo)
	if err := w.StartupSummary(ctx, 5); err != nil {
		logger.Error("Failed to read view stats on startup", log.FieldError, err)
	}

	logger.Info("Consuming view events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	err = client.ConsumeViewEvents(ctx, w.HandleViewEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err, log.FieldOperation, log.OpConsume)
	}

	logger.Info("Worker shutdown complete", "events_handled", w.Handled())
}
