package main

import (
	"context"
	"os"
	"time"

	"autosales/internal/cli"
	"autosales/internal/config"
	"autosales/internal/log"
	"autosales/internal/source"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentStorage)

	// The importer always reads CSV and creates the database if needed.
	cfg := cli.LoadAndValidateConfig(logger, func(c *config.Config) {
		c.DataBackend = config.BackendCSV
	})

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	start := time.Now()
	loader := source.NewCSVLoader(cfg.DatasetURL, cfg.DatasetTimeout)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.DatasetTimeout)
	records, err := loader.Load(loadCtx)
	cancel()
	if err != nil {
		logger.Error("Failed to read dataset",
			log.FieldError, err,
			log.FieldSource, loader.Source(),
			log.FieldOperation, log.OpImport,
			"error_type", log.ErrorType(err))
		os.Exit(1)
	}
	// An empty import would wipe the table and break the next web start.
	if len(records) == 0 {
		logger.Error("Dataset has no records, keeping the existing database",
			log.FieldSource, loader.Source(),
			log.FieldOperation, log.OpImport,
			"error_type", log.ErrorTypeValidation)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if err := repo.ReplaceRecords(ctx, records); err != nil {
		logger.Error("Failed to import dataset",
			log.FieldError, err,
			"path", cfg.SQLiteDBPath,
			log.FieldOperation, log.OpImport,
			"error_type", log.ErrorTypeDatabase)
		repo.Close()
		os.Exit(1)
	}

	count, err := repo.CountRecords(ctx)
	if err != nil {
		logger.Warn("Imported but could not count rows", log.FieldError, err)
	}
	logger.Info("Dataset imported",
		log.FieldSource, loader.Source(),
		"path", cfg.SQLiteDBPath,
		log.FieldRows, count,
		"elapsed", time.Since(start).String(),
		log.FieldOperation, log.OpImport)
}
