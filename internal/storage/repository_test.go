package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"autosales/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "autosales.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

var testRecords = []core.SalesRecord{
	{Year: 1980, Month: 1, Recession: true, VehicleType: "Truck", AutomobileSales: 100, AdvertisingExpenditure: 10, UnemploymentRate: 5.5},
	{Year: 1980, Month: 2, Recession: true, VehicleType: "Car", AutomobileSales: 200, AdvertisingExpenditure: 20, UnemploymentRate: 6},
	{Year: 1981, Month: 12, Recession: false, VehicleType: "Truck", AutomobileSales: 50.5, AdvertisingExpenditure: 5, UnemploymentRate: 4.2},
}

func TestSQLiteRepository_LoadEmpty(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.Load(context.Background()); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestSQLiteRepository_ReplaceAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.ReplaceRecords(ctx, testRecords); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(testRecords) {
		t.Fatalf("got %d records, want %d", len(got), len(testRecords))
	}
	for i := range testRecords {
		if got[i] != testRecords[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], testRecords[i])
		}
	}

	// Second import replaces, never appends.
	if err := repo.ReplaceRecords(ctx, testRecords[:1]); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}
	if n, err := repo.CountRecords(ctx); err != nil || n != 1 {
		t.Fatalf("CountRecords = %d, %v; want 1", n, err)
	}
}

func TestSQLiteRepository_ReplaceRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if err := repo.ReplaceRecords(ctx, testRecords); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}

	bad := append([]core.SalesRecord{}, testRecords...)
	bad = append(bad, core.SalesRecord{Year: 1982, Month: 13, VehicleType: "Car"})
	if err := repo.ReplaceRecords(ctx, bad); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if n, _ := repo.CountRecords(ctx); n != len(testRecords) {
		t.Fatalf("previous contents must survive a failed import, got %d rows", n)
	}
}

func TestSQLiteRepository_ReplaceRejectsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.ReplaceRecords(ctx, testRecords); err != nil {
		t.Fatalf("ReplaceRecords: %v", err)
	}

	for _, empty := range [][]core.SalesRecord{nil, {}} {
		if err := repo.ReplaceRecords(ctx, empty); !errors.Is(err, ErrEmptyImport) {
			t.Fatalf("expected ErrEmptyImport, got %v", err)
		}
	}
	if n, err := repo.CountRecords(ctx); err != nil || n != len(testRecords) {
		t.Errorf("CountRecords = %d, %v; previous import must survive", n, err)
	}
}

func TestSQLiteRepository_ViewStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	yearly := core.Selection{Report: core.Yearly, Year: 1980}
	recession := core.Selection{Report: core.Recession}

	for i, step := range []struct {
		sel         core.Selection
		placeholder bool
	}{
		{yearly, false},
		{yearly, false},
		{recession, false},
		{core.Selection{Report: core.Yearly}, true},
	} {
		if err := repo.IncrementViewStat(ctx, step.sel, step.placeholder, t0.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("IncrementViewStat: %v", err)
		}
	}

	stats, err := repo.ViewStats(ctx)
	if err != nil {
		t.Fatalf("ViewStats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("got %d stats, want 3", len(stats))
	}
	top := stats[0]
	if top.Report != string(core.Yearly) || top.Year != 1980 || top.Views != 2 {
		t.Errorf("top stat = %+v", top)
	}
	if !top.LastViewedAt.Equal(t0.Add(time.Minute)) {
		t.Errorf("LastViewedAt = %v", top.LastViewedAt)
	}

	var placeholders int64
	for _, s := range stats {
		placeholders += s.PlaceholderViews
	}
	if placeholders != 1 {
		t.Errorf("placeholder views = %d, want 1", placeholders)
	}
}

func TestSQLiteRepository_Ping(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if got := repo.Source(); got == "" {
		t.Fatal("Source() should not be empty")
	}
}
