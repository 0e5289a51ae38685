package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"autosales/internal/core"
)

// Column names of the historical sales table.
const (
	ColYear             = "Year"
	ColMonth            = "Month"
	ColRecession        = "Recession"
	ColVehicleType      = "Vehicle_Type"
	ColAutomobileSales  = "Automobile_Sales"
	ColAdvertising      = "Advertising_Expenditure"
	ColUnemploymentRate = "unemployment_rate"
)

var requiredColumns = []string{
	ColYear, ColMonth, ColRecession, ColVehicleType,
	ColAutomobileSales, ColAdvertising, ColUnemploymentRate,
}

var (
	ErrEmptyInput    = errors.New("dataset is empty")
	ErrMissingColumn = errors.New("missing required column")
)

// RowError points at the offending data row (1-based, header excluded).
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseCSV reads a CSV table whose first line is a header.
func ParseCSV(r io.Reader) ([]core.SalesRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return ParseRows(rows[0], rows[1:])
}

// ParseRows maps columns by header name, case-insensitively. Extra columns are
// ignored and blank rows skipped.
func ParseRows(header []string, rows [][]string) ([]core.SalesRecord, error) {
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	out := make([]core.SalesRecord, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rec, err := parseRow(idx, row)
		if err != nil {
			err.Row = i + 1
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, want := range requiredColumns {
			if _, seen := idx[want]; !seen && strings.EqualFold(h, want) {
				idx[want] = i
			}
		}
	}

	var missing []string
	for _, want := range requiredColumns {
		if _, ok := idx[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(idx map[string]int, row []string) (core.SalesRecord, *RowError) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	fail := func(col string, err error) *RowError {
		return &RowError{Column: col, Err: err}
	}

	var rec core.SalesRecord

	year, err := strconv.Atoi(cell(ColYear))
	if err != nil {
		return rec, fail(ColYear, err)
	}
	month, err := core.ParseMonth(cell(ColMonth))
	if err != nil {
		return rec, fail(ColMonth, err)
	}
	recession, err := parseFlag(cell(ColRecession))
	if err != nil {
		return rec, fail(ColRecession, err)
	}
	sales, err := parseNumber(cell(ColAutomobileSales))
	if err != nil {
		return rec, fail(ColAutomobileSales, err)
	}
	adSpend, err := parseNumber(cell(ColAdvertising))
	if err != nil {
		return rec, fail(ColAdvertising, err)
	}
	rate, err := parseNumber(cell(ColUnemploymentRate))
	if err != nil {
		return rec, fail(ColUnemploymentRate, err)
	}

	rec = core.SalesRecord{
		Year:                   year,
		Month:                  month,
		Recession:              recession,
		VehicleType:            cell(ColVehicleType),
		AutomobileSales:        sales,
		AdvertisingExpenditure: adSpend,
		UnemploymentRate:       rate,
	}
	if err := rec.Validate(); err != nil {
		return rec, &RowError{Err: err}
	}
	return rec, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "yes":
		return true, nil
	case "0", "0.0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid recession flag %q", s)
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
