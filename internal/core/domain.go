package core

import (
	"errors"
	"strconv"
	"strings"
)

const (
	Yearly    ReportMode = "Yearly Statistics"
	Recession ReportMode = "Recession Period Statistics"

	// UnknownReport stands in for any control value that is not a report.
	UnknownReport ReportMode = "unknown"
)

// NoYear marks an absent year selection.
const NoYear = 0

// PlaceholderMessage is shown instead of charts when the selection matches no report.
const PlaceholderMessage = "No data to display. Please make a selection."

type (
	ReportMode string

	Month int

	// SalesRecord is one row of the historical sales table.
	SalesRecord struct {
		Year                   int
		Month                  Month
		Recession              bool
		VehicleType            string
		AutomobileSales        float64
		AdvertisingExpenditure float64
		UnemploymentRate       float64
	}

	// Selection is the state of the two dashboard controls.
	Selection struct {
		Report ReportMode
		Year   int
	}
)

var (
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidYear        = errors.New("invalid year")
	ErrEmptyVehicleType   = errors.New("empty vehicle type")
	ErrNegativeSales      = errors.New("negative automobile sales")
	ErrNegativeAdSpending = errors.New("negative advertising expenditure")
)

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ReportModes lists the selectable report types in dropdown order.
func ReportModes() []ReportMode {
	return []ReportMode{Yearly, Recession}
}

// ParseReportMode matches a control value against the known report types.
func ParseReportMode(s string) (ReportMode, bool) {
	switch ReportMode(strings.TrimSpace(s)) {
	case Yearly:
		return Yearly, true
	case Recession:
		return Recession, true
	}
	return UnknownReport, false
}

// Label is the human readable dropdown label.
func (m ReportMode) Label() string {
	return string(m)
}

// ParseMonth accepts "Jan", "January" or "1" in any case.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, ErrInvalidMonth
		}
		return Month(n), nil
	}
	if len(s) < 3 {
		return 0, ErrInvalidMonth
	}
	prefix := strings.ToLower(s[:3])
	for i, name := range monthNames {
		if strings.ToLower(name) == prefix {
			return Month(i + 1), nil
		}
	}
	return 0, ErrInvalidMonth
}

func (m Month) Valid() bool {
	return m >= 1 && m <= 12
}

func (m Month) String() string {
	if !m.Valid() {
		return "Month(" + strconv.Itoa(int(m)) + ")"
	}
	return monthNames[m-1]
}

// Validate checks the fields a loader must never let through.
func (r SalesRecord) Validate() error {
	if r.Year <= 0 {
		return ErrInvalidYear
	}
	if !r.Month.Valid() {
		return ErrInvalidMonth
	}
	if strings.TrimSpace(r.VehicleType) == "" {
		return ErrEmptyVehicleType
	}
	if r.AutomobileSales < 0 {
		return ErrNegativeSales
	}
	if r.AdvertisingExpenditure < 0 {
		return ErrNegativeAdSpending
	}
	return nil
}

// HasYear reports whether a year was selected.
func (s Selection) HasYear() bool {
	return s.Year != NoYear
}

// Normalize drops what cannot change the result: the year of a recession
// report, and anything about a report that is not Yearly or Recession.
func (s Selection) Normalize() Selection {
	switch s.Report {
	case Yearly:
		return s
	case Recession:
		return Selection{Report: Recession}
	default:
		return Selection{Report: UnknownReport}
	}
}

// CacheKey identifies a selection for memoised chart results. Selections
// that always render the same result share a key.
func (s Selection) CacheKey() string {
	n := s.Normalize()
	return string(n.Report) + "|" + strconv.Itoa(n.Year)
}
