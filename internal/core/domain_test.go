package core

import (
	"errors"
	"testing"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"Jan", 1, true},
		{"jan", 1, true},
		{"December", 12, true},
		{" sep ", 9, true},
		{"7", 7, true},
		{"13", 0, false},
		{"0", 0, false},
		{"Ja", 0, false},
		{"Foo", 0, false},
		{"", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q) expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrInvalidMonth) {
				t.Fatalf("case %d (%q) expected ErrInvalidMonth, got %v", i, tc.in, err)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("case %d (%q) got %d want %d", i, tc.in, got, tc.want)
		}
	}
}

func TestMonthString(t *testing.T) {
	if Month(1).String() != "Jan" || Month(12).String() != "Dec" {
		t.Fatalf("unexpected month names: %s %s", Month(1), Month(12))
	}
	if Month(13).String() != "Month(13)" {
		t.Fatalf("unexpected invalid month name: %s", Month(13))
	}
}

func TestParseReportMode(t *testing.T) {
	if m, ok := ParseReportMode("Yearly Statistics"); !ok || m != Yearly {
		t.Fatalf("expected Yearly, got %q %v", m, ok)
	}
	if m, ok := ParseReportMode(" Recession Period Statistics "); !ok || m != Recession {
		t.Fatalf("expected Recession, got %q %v", m, ok)
	}
	if m, ok := ParseReportMode("Quarterly"); ok || m != UnknownReport {
		t.Fatalf("expected unknown report mode to be rejected as %q, got %q %v", UnknownReport, m, ok)
	}
	if _, ok := ParseReportMode(""); ok {
		t.Fatalf("expected empty report mode to be rejected")
	}
}

func TestSalesRecordValidate(t *testing.T) {
	good := SalesRecord{Year: 1980, Month: 1, VehicleType: "Supperminicar", AutomobileSales: 10, AdvertisingExpenditure: 5}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		r    SalesRecord
		want error
	}{
		{SalesRecord{Year: 0, Month: 1, VehicleType: "Car"}, ErrInvalidYear},
		{SalesRecord{Year: 1980, Month: 0, VehicleType: "Car"}, ErrInvalidMonth},
		{SalesRecord{Year: 1980, Month: 1, VehicleType: " "}, ErrEmptyVehicleType},
		{SalesRecord{Year: 1980, Month: 1, VehicleType: "Car", AutomobileSales: -1}, ErrNegativeSales},
		{SalesRecord{Year: 1980, Month: 1, VehicleType: "Car", AdvertisingExpenditure: -1}, ErrNegativeAdSpending},
	}
	for i, tc := range bads {
		if err := tc.r.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestSelectionCacheKey(t *testing.T) {
	a := Selection{Report: Yearly, Year: 1980}
	b := Selection{Report: Yearly, Year: 1981}
	c := Selection{Report: Recession, Year: 1980}
	if a.CacheKey() == b.CacheKey() || a.CacheKey() == c.CacheKey() {
		t.Fatalf("cache keys must differ: %q %q %q", a.CacheKey(), b.CacheKey(), c.CacheKey())
	}
	if (Selection{Report: Yearly}).HasYear() {
		t.Fatalf("zero year must be absent")
	}

	same := []struct {
		name string
		a, b Selection
	}{
		{"recession ignores year", Selection{Report: Recession, Year: 1980}, Selection{Report: Recession, Year: 2001}},
		{"recession with and without year", Selection{Report: Recession, Year: 1980}, Selection{Report: Recession}},
		{"unknown reports collapse", Selection{Report: "Weekly", Year: 1980}, Selection{Report: "Quarterly", Year: 7}},
	}
	for _, tt := range same {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.CacheKey() != tt.b.CacheKey() {
				t.Errorf("keys differ: %q %q", tt.a.CacheKey(), tt.b.CacheKey())
			}
		})
	}
}

func TestSelectionNormalize(t *testing.T) {
	tests := []struct {
		in   Selection
		want Selection
	}{
		{Selection{Report: Yearly, Year: 1980}, Selection{Report: Yearly, Year: 1980}},
		{Selection{Report: Yearly}, Selection{Report: Yearly}},
		{Selection{Report: Recession, Year: 1980}, Selection{Report: Recession}},
		{Selection{Report: "Weekly", Year: 1980}, Selection{Report: UnknownReport}},
		{Selection{}, Selection{Report: UnknownReport}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDataset(t *testing.T) {
	in := []SalesRecord{
		{Year: 1982, Month: 1, VehicleType: "Truck"},
		{Year: 1980, Month: 2, VehicleType: "Car"},
		{Year: 1982, Month: 3, VehicleType: "Car"},
		{Year: 1981, Month: 4, VehicleType: "Bus"},
	}
	ds := NewDataset(in)
	in[0].Year = 2000 // the dataset keeps its own copy

	if ds.Len() != 4 {
		t.Fatalf("len=%d", ds.Len())
	}
	years := ds.Years()
	if len(years) != 3 || years[0] != 1980 || years[1] != 1981 || years[2] != 1982 {
		t.Fatalf("unexpected years %v", years)
	}
	if y, ok := ds.DefaultYear(); !ok || y != 1980 {
		t.Fatalf("default year=%d ok=%v", y, ok)
	}
	if !ds.HasYear(1981) || ds.HasYear(2000) || ds.HasYear(1999) {
		t.Fatalf("HasYear mismatch")
	}
	types := ds.VehicleTypes()
	if len(types) != 3 || types[0] != "Truck" || types[1] != "Car" || types[2] != "Bus" {
		t.Fatalf("unexpected vehicle types %v", types)
	}

	years[0] = 1 // returned slices are copies
	if ds.Years()[0] != 1980 {
		t.Fatalf("Years must return a copy")
	}

	empty := NewDataset(nil)
	if _, ok := empty.DefaultYear(); ok {
		t.Fatalf("empty dataset has no default year")
	}
}
