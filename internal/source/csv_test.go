package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestCSVLoader_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	l := NewCSVLoader(srv.URL+"/sales.csv", 5*time.Second)
	records, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if l.Source() != srv.URL+"/sales.csv" {
		t.Errorf("Source() = %q", l.Source())
	}
}

func TestCSVLoader_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	records, err := NewCSVLoader(srv.URL, 5*time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 || hits.Load() != 2 {
		t.Fatalf("records=%d hits=%d", len(records), hits.Load())
	}
}

func TestCSVLoader_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := NewCSVLoader(srv.URL, 5*time.Second).Load(context.Background()); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestCSVLoader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, loc := range []string{path, "file://" + path} {
		records, err := NewCSVLoader(loc, time.Second).Load(context.Background())
		if err != nil {
			t.Fatalf("Load(%s): %v", loc, err)
		}
		if len(records) != 3 {
			t.Fatalf("Load(%s) = %d records", loc, len(records))
		}
	}

	if _, err := NewCSVLoader(filepath.Join(t.TempDir(), "missing.csv"), time.Second).Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestMemoryLoader(t *testing.T) {
	records, err := ParseRows(
		[]string{"Year", "Month", "Recession", "Vehicle_Type", "Automobile_Sales", "Advertising_Expenditure", "unemployment_rate"},
		[][]string{{"2020", "1", "0", "Car", "100", "10", "5"}},
	)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}

	m := NewMemoryLoader(records)
	got, err := m.Load(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("Load = %v, %v", got, err)
	}
	got[0].VehicleType = "mutated"
	again, _ := m.Load(context.Background())
	if again[0].VehicleType != "Car" {
		t.Fatal("Load must return a copy")
	}

	boom := errors.New("boom")
	m.FailWith(boom)
	if _, err := m.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if m.Calls() != 3 {
		t.Fatalf("Calls() = %d, want 3", m.Calls())
	}

	var loader DatasetLoader = LoaderFunc(m.Load)
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("LoaderFunc should forward the error")
	}
}
