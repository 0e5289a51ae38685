package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"autosales/internal/core"
	"autosales/internal/source"

	_ "modernc.org/sqlite"
)

// ErrNoRecords is returned by Load when the database holds no sales rows.
var ErrNoRecords = errors.New("no sales records imported")

// ErrEmptyImport is returned when a replace would leave the table empty.
var ErrEmptyImport = errors.New("refusing to replace sales records with an empty dataset")

type SQLiteRepository struct {
	db      *sql.DB
	path    string
	queries *Queries
}

var (
	_ source.DatasetLoader = (*SQLiteRepository)(nil)
	_ source.Named         = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		path:    dbPath,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Source() string { return "sqlite:" + r.path }

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load implements source.DatasetLoader
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.SalesRecord, error) {
	rows, err := r.queries.ListSalesRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales records: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	out := make([]core.SalesRecord, len(rows))
	for i, row := range rows {
		out[i] = core.SalesRecord{
			Year:                   int(row.Year),
			Month:                  core.Month(row.Month),
			Recession:              row.Recession == 1,
			VehicleType:            row.VehicleType,
			AutomobileSales:        row.AutomobileSales,
			AdvertisingExpenditure: row.AdvertisingExpenditure,
			UnemploymentRate:       row.UnemploymentRate,
		}
	}
	return out, nil
}

// ReplaceRecords swaps the whole sales table for records in one transaction.
func (r *SQLiteRepository) ReplaceRecords(ctx context.Context, records []core.SalesRecord) error {
	if len(records) == 0 {
		return ErrEmptyImport
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllSalesRecords(ctx); err != nil {
		return fmt.Errorf("delete sales records: %w", err)
	}
	for i, rec := range records {
		var recession int64
		if rec.Recession {
			recession = 1
		}
		err := q.InsertSalesRecord(ctx, InsertSalesRecordParams{
			Year:                   int64(rec.Year),
			Month:                  int64(rec.Month),
			Recession:              recession,
			VehicleType:            rec.VehicleType,
			AutomobileSales:        rec.AutomobileSales,
			AdvertisingExpenditure: rec.AdvertisingExpenditure,
			UnemploymentRate:       rec.UnemploymentRate,
		})
		if err != nil {
			return fmt.Errorf("insert record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Sales records replaced", "component", "storage", "rows", len(records))
	return nil
}

// CountRecords returns the number of stored sales rows.
func (r *SQLiteRepository) CountRecords(ctx context.Context) (int, error) {
	n, err := r.queries.CountSalesRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("count sales records: %w", err)
	}
	return int(n), nil
}

// ViewStatSummary is the per-selection view counter kept by the worker.
type ViewStatSummary struct {
	Report           string
	Year             int
	Views            int64
	PlaceholderViews int64
	LastViewedAt     time.Time
}

// IncrementViewStat records one dashboard view of the selection.
func (r *SQLiteRepository) IncrementViewStat(ctx context.Context, sel core.Selection, placeholder bool, at time.Time) error {
	var ph int64
	if placeholder {
		ph = 1
	}
	err := r.queries.UpsertViewStat(ctx, UpsertViewStatParams{
		Report:           string(sel.Report),
		Year:             int64(sel.Year),
		PlaceholderViews: ph,
		LastViewedAt:     at.Unix(),
	})
	if err != nil {
		return fmt.Errorf("upsert view stat: %w", err)
	}
	return nil
}

// ViewStats lists counters, most viewed first.
func (r *SQLiteRepository) ViewStats(ctx context.Context) ([]ViewStatSummary, error) {
	rows, err := r.queries.ListViewStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list view stats: %w", err)
	}
	out := make([]ViewStatSummary, len(rows))
	for i, row := range rows {
		out[i] = ViewStatSummary{
			Report:           row.Report,
			Year:             int(row.Year),
			Views:            row.Views,
			PlaceholderViews: row.PlaceholderViews,
			LastViewedAt:     time.Unix(row.LastViewedAt, 0).UTC(),
		}
	}
	return out, nil
}
