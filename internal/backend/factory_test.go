package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"autosales/internal/config"
	"autosales/internal/core"
	"autosales/internal/source"
	"autosales/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    BackendType
		wantErr bool
	}{
		{"empty means csv", "", CSVBackend, false},
		{"csv", config.BackendCSV, CSVBackend, false},
		{"sqlite", config.BackendSQLite, SQLiteBackend, false},
		{"sheets", config.BackendSheets, SheetsBackend, false},
		{"unknown", "mongo", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAppConfig(&config.Config{DataBackend: tt.backend, DatasetURL: "sales.csv"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Type != tt.want {
				t.Errorf("Type = %q, want %q", got.Type, tt.want)
			}
		})
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"csv ok", Config{Type: CSVBackend, DatasetURL: "sales.csv"}, false},
		{"csv missing url", Config{Type: CSVBackend}, true},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"sheets missing id", Config{Type: SheetsBackend}, true},
		{"invalid type", Config{Type: "memory"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	data := "Date,Year,Month,Recession,Automobile_Sales,Advertising_Expenditure,unemployment_rate,Vehicle_Type\n" +
		"1/31/1980,1980,Jan,1,100.5,1200,5.5,Supperminicar\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil, 0).CreateBackend(context.Background(), Config{Type: CSVBackend, DatasetURL: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()

	if _, ok := res.Loader.(*source.CSVLoader); !ok {
		t.Fatalf("loader = %T, want *source.CSVLoader", res.Loader)
	}
	records, err := res.Loader.Load(context.Background())
	if err != nil || len(records) != 1 {
		t.Errorf("Load = %+v, %v", records, err)
	}
}

func TestCreateBackend_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "autosales.db")
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	rows := []core.SalesRecord{{Year: 2020, Month: 1, VehicleType: "Car", AutomobileSales: 100, AdvertisingExpenditure: 1, UnemploymentRate: 4}}
	if err := repo.ReplaceRecords(context.Background(), rows); err != nil {
		t.Fatal(err)
	}
	repo.Close()

	res, err := NewFactory(nil, 0).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	got, err := res.Loader.Load(context.Background())
	if err != nil || len(got) != 1 || got[0] != rows[0] {
		t.Errorf("Load = %+v, %v", got, err)
	}
	if err := res.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestBackendResult_CloseNil(t *testing.T) {
	var r *BackendResult
	if err := r.Close(); err != nil {
		t.Errorf("nil result Close = %v", err)
	}
	if err := (&BackendResult{}).Close(); err != nil {
		t.Errorf("no cleanup Close = %v", err)
	}
}
