package core

import "fmt"

// SelectorState returns the year dropdown state for a report type.
// The year only matters for yearly reports, so the control is disabled
// for recession reports and enabled otherwise.
func SelectorState(mode ReportMode) YearControl {
	return YearControl{Enabled: mode != Recession}
}

// ComputeCharts maps a control state to the charts of the selected report.
//
// Recession reports are computed from recession rows only and ignore year.
// Yearly reports need a year present in the dataset; their first chart is
// the trend over the whole dataset while the other three are restricted to
// the selected year. Any other combination yields the placeholder result.
func ComputeCharts(ds *Dataset, mode ReportMode, year int) Result {
	if ds == nil {
		ds = NewDataset(nil)
	}
	switch {
	case mode == Recession:
		return recessionReport(ds)
	case mode == Yearly && year != NoYear && ds.HasYear(year):
		return yearlyReport(ds, year)
	}
	return PlaceholderResult()
}

// Compute is ComputeCharts for a Selection.
func Compute(ds *Dataset, sel Selection) Result {
	return ComputeCharts(ds, sel.Report, sel.Year)
}

func recessionReport(ds *Dataset) Result {
	rows := ds.where(func(r SalesRecord) bool { return r.Recession })
	categories, byRate := ds.meanSalesByRateAndType(rows)

	return Result{Charts: []Chart{
		{
			ID:     "recession-sales-by-year",
			Title:  "Average Automobile Sales During Recession",
			Kind:   ChartLine,
			XLabel: "Year",
			YLabel: "Automobile Sales",
			Series: []Series{{Points: meanSalesByYear(rows)}},
		},
		{
			ID:     "recession-sales-by-type",
			Title:  "Average Vehicles Sold by Type During Recession",
			Kind:   ChartBar,
			XLabel: "Vehicle Type",
			YLabel: "Automobile Sales",
			Series: []Series{{Points: ds.meanSalesByType(rows)}},
		},
		{
			ID:     "recession-ad-share",
			Title:  "Ad Expenditure by Vehicle Type (Recession)",
			Kind:   ChartPie,
			XLabel: "Vehicle Type",
			YLabel: "Advertising Expenditure",
			Series: []Series{{Points: ds.adShareByType(rows)}},
		},
		{
			ID:         "recession-unemployment-sales",
			Title:      "Unemployment Rate vs Vehicle Sales",
			Kind:       ChartGroupedBar,
			XLabel:     "Unemployment Rate",
			YLabel:     "Automobile Sales",
			Categories: categories,
			Series:     byRate,
		},
	}}
}

func yearlyReport(ds *Dataset, year int) Result {
	rows := ds.where(func(r SalesRecord) bool { return r.Year == year })

	return Result{Charts: []Chart{
		{
			ID:     "yearly-sales-by-year",
			Title:  "Yearly Average Automobile Sales",
			Kind:   ChartLine,
			XLabel: "Year",
			YLabel: "Automobile Sales",
			Series: []Series{{Points: meanSalesByYear(ds.records)}},
		},
		{
			ID:     "yearly-sales-by-month",
			Title:  fmt.Sprintf("Monthly Automobile Sales in %d", year),
			Kind:   ChartLine,
			XLabel: "Month",
			YLabel: "Automobile Sales",
			Series: []Series{{Points: totalSalesByMonth(rows)}},
		},
		{
			ID:     "yearly-sales-by-type",
			Title:  fmt.Sprintf("Avg Vehicles Sold by Type in %d", year),
			Kind:   ChartBar,
			XLabel: "Vehicle Type",
			YLabel: "Automobile Sales",
			Series: []Series{{Points: ds.meanSalesByType(rows)}},
		},
		{
			ID:     "yearly-ad-share",
			Title:  fmt.Sprintf("Ad Expenditure by Type in %d", year),
			Kind:   ChartPie,
			XLabel: "Vehicle Type",
			YLabel: "Advertising Expenditure",
			Series: []Series{{Points: ds.adShareByType(rows)}},
		},
	}}
}
