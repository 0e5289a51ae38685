// Package cli provides common CLI initialization utilities shared by
// cmd/autosales, cmd/autosales-import and cmd/autosales-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"autosales/internal/backend"
	"autosales/internal/config"
	"autosales/internal/log"
	"autosales/internal/source"
	"autosales/internal/storage"
)

// SetupLogger builds the process logger from LOG_LEVEL and makes it the
// slog default. It runs before config loading so config errors get logged.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(os.Getenv("LOG_LEVEL"))
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, lets the caller adjust it and
// validates it. Exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger, adjust func(*config.Config)) *config.Config {
	cfg := config.Load()
	if adjust != nil {
		adjust(cfg)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldError, err,
			"error_type", log.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens (and migrates) the SQLite database or exits the process.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err,
			"path", dbPath,
			"error_type", log.ErrorTypeDatabase)
		os.Exit(1)
	}
	return repo
}

// OpenDatasetLoader returns the loader for the configured backend and a
// release func the caller must run once the dataset has been read.
func OpenDatasetLoader(ctx context.Context, cfg *config.Config) (source.DatasetLoader, func(), error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(log.FromContext(ctx), cfg.DatasetTimeout).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}
	return res.Loader, func() { _ = res.Close() }, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
// The returned stop func releases the signal handler.
func GracefulShutdown(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
