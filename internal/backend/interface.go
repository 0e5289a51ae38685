package backend

import (
	"context"

	"autosales/internal/config"
	"autosales/internal/source"
)

// CleanupFunc releases whatever the backend opened to read the dataset.
type CleanupFunc func() error

// BackendResult contains the loader and an optional cleanup function.
type BackendResult struct {
	Loader  source.DatasetLoader
	Cleanup CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates dataset loaders based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error)
}

// Config holds what a factory needs to open a dataset backend.
type Config struct {
	Type BackendType

	// CSV
	DatasetURL string

	// SQLite
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = config.BackendCSV
	SQLiteBackend BackendType = config.BackendSQLite
	SheetsBackend BackendType = config.BackendSheets
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
