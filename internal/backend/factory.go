package backend

import (
	"context"
	"fmt"
	"time"

	"autosales/internal/log"
	"autosales/internal/source"
	"autosales/internal/source/google"
	"autosales/internal/storage"
)

// defaultCSVTimeout bounds the HTTP fetch of a remote CSV dataset.
const defaultCSVTimeout = 30 * time.Second

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger     *log.Logger
	csvTimeout time.Duration
}

// NewFactory creates a new backend factory. A zero timeout keeps the default.
func NewFactory(logger *log.Logger, timeout time.Duration) *DefaultFactory {
	if logger == nil {
		logger = log.Nop()
	}
	if timeout <= 0 {
		timeout = defaultCSVTimeout
	}
	return &DefaultFactory{logger: logger, csvTimeout: timeout}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case CSVBackend:
		return f.createCSVBackend(cfg)
	case SQLiteBackend:
		return f.createSQLiteBackend(cfg)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createCSVBackend(cfg Config) (*BackendResult, error) {
	loader := source.NewCSVLoader(cfg.DatasetURL, f.csvTimeout)
	f.logger.Debug("Initialized CSV backend", log.FieldSource, loader.Source())
	return &BackendResult{Loader: loader}, nil
}

func (f *DefaultFactory) createSQLiteBackend(cfg Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite dataset: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &BackendResult{Loader: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	loader, err := google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		return nil, fmt.Errorf("open sheets dataset: %w", err)
	}
	f.logger.Info("Initialized Google Sheets backend", log.FieldSource, loader.Source())
	return &BackendResult{Loader: loader}, nil
}
