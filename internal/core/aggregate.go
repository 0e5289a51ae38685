package core

import (
	"cmp"
	"slices"
	"strconv"
)

type accumulator struct {
	sum   float64
	count int
}

func (a accumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

func (a accumulator) total() float64 {
	return a.sum
}

// groups keeps accumulators per key plus the first-seen key order.
type groups[K comparable] struct {
	order []K
	acc   map[K]*accumulator
}

func groupBy[K comparable](rows []SalesRecord, key func(SalesRecord) K, measure func(SalesRecord) float64) groups[K] {
	g := groups[K]{acc: make(map[K]*accumulator)}
	for _, r := range rows {
		k := key(r)
		a, ok := g.acc[k]
		if !ok {
			a = &accumulator{}
			g.acc[k] = a
			g.order = append(g.order, k)
		}
		a.sum += measure(r)
		a.count++
	}
	return g
}

// points orders the groups with compare and reduces each to one Point.
func (g groups[K]) points(compare func(a, b K) int, format func(K) string, reduce func(accumulator) float64) []Point {
	keys := slices.Clone(g.order)
	slices.SortStableFunc(keys, compare)
	out := make([]Point, 0, len(keys))
	for _, k := range keys {
		out = append(out, Point{Key: format(k), Value: reduce(*g.acc[k])})
	}
	return out
}

func byYear(r SalesRecord) int { return r.Year }

func byMonth(r SalesRecord) Month { return r.Month }

func byVehicleType(r SalesRecord) string { return r.VehicleType }

func salesOf(r SalesRecord) float64 { return r.AutomobileSales }

func adSpendOf(r SalesRecord) float64 { return r.AdvertisingExpenditure }

func formatYear(y int) string { return strconv.Itoa(y) }

func formatMonth(m Month) string { return m.String() }

func formatRate(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatType(s string) string { return s }

func meanOf(a accumulator) float64 { return a.mean() }

func totalOf(a accumulator) float64 { return a.total() }

// typeOrder ranks vehicle types by their first appearance in the dataset.
func (d *Dataset) typeOrder() func(a, b string) int {
	rank := make(map[string]int, len(d.vehicleTypes))
	for i, t := range d.vehicleTypes {
		rank[t] = i
	}
	return func(a, b string) int {
		return cmp.Compare(rank[a], rank[b])
	}
}

// meanSalesByYear averages Automobile_Sales per year, years ascending.
func meanSalesByYear(rows []SalesRecord) []Point {
	return groupBy(rows, byYear, salesOf).points(cmp.Compare[int], formatYear, meanOf)
}

// totalSalesByMonth sums Automobile_Sales per month in calendar order.
func totalSalesByMonth(rows []SalesRecord) []Point {
	return groupBy(rows, byMonth, salesOf).points(cmp.Compare[Month], formatMonth, totalOf)
}

// meanSalesByType averages Automobile_Sales per vehicle type.
func (d *Dataset) meanSalesByType(rows []SalesRecord) []Point {
	return groupBy(rows, byVehicleType, salesOf).points(d.typeOrder(), formatType, meanOf)
}

// adShareByType sums Advertising_Expenditure per vehicle type and attaches
// each group's share of the subset total.
func (d *Dataset) adShareByType(rows []SalesRecord) []Point {
	pts := groupBy(rows, byVehicleType, adSpendOf).points(d.typeOrder(), formatType, totalOf)
	var total float64
	for _, p := range pts {
		total += p.Value
	}
	if total == 0 {
		return pts
	}
	for i := range pts {
		pts[i].Share = pts[i].Value / total
	}
	return pts
}

// meanSalesByRateAndType averages Automobile_Sales per (unemployment rate,
// vehicle type) and returns one series per vehicle type plus the ascending
// list of rates seen in rows. Types without rows get no series.
func (d *Dataset) meanSalesByRateAndType(rows []SalesRecord) ([]string, []Series) {
	type rateType struct {
		rate float64
		kind string
	}
	g := groupBy(rows, func(r SalesRecord) rateType {
		return rateType{rate: r.UnemploymentRate, kind: r.VehicleType}
	}, salesOf)

	rates := make([]float64, 0, len(g.order))
	seenRate := map[float64]struct{}{}
	for _, k := range g.order {
		if _, ok := seenRate[k.rate]; ok {
			continue
		}
		seenRate[k.rate] = struct{}{}
		rates = append(rates, k.rate)
	}
	slices.Sort(rates)

	categories := make([]string, 0, len(rates))
	for _, rate := range rates {
		categories = append(categories, formatRate(rate))
	}

	series := make([]Series, 0, len(d.vehicleTypes))
	for _, kind := range d.vehicleTypes {
		var pts []Point
		for _, rate := range rates {
			a, ok := g.acc[rateType{rate: rate, kind: kind}]
			if !ok {
				continue
			}
			pts = append(pts, Point{Key: formatRate(rate), Value: a.mean()})
		}
		if len(pts) == 0 {
			continue
		}
		series = append(series, Series{Label: kind, Points: pts})
	}
	return categories, series
}
