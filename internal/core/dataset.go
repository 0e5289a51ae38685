package core

import "sort"

// Dataset is the immutable sales table shared by every chart computation.
// Build it once with NewDataset and pass it by pointer.
type Dataset struct {
	records      []SalesRecord
	years        []int
	vehicleTypes []string
}

// NewDataset copies records and precomputes the year list and vehicle types.
func NewDataset(records []SalesRecord) *Dataset {
	ds := &Dataset{records: append([]SalesRecord(nil), records...)}

	seenYear := map[int]struct{}{}
	seenType := map[string]struct{}{}
	for _, r := range ds.records {
		if _, ok := seenYear[r.Year]; !ok {
			seenYear[r.Year] = struct{}{}
			ds.years = append(ds.years, r.Year)
		}
		if _, ok := seenType[r.VehicleType]; !ok {
			seenType[r.VehicleType] = struct{}{}
			ds.vehicleTypes = append(ds.vehicleTypes, r.VehicleType)
		}
	}
	sort.Ints(ds.years)
	return ds
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all rows.
func (d *Dataset) Records() []SalesRecord {
	return append([]SalesRecord(nil), d.records...)
}

// Years returns the sorted distinct years.
func (d *Dataset) Years() []int {
	return append([]int(nil), d.years...)
}

// DefaultYear is the earliest year, used as the initial dropdown value.
func (d *Dataset) DefaultYear() (int, bool) {
	if len(d.years) == 0 {
		return NoYear, false
	}
	return d.years[0], true
}

func (d *Dataset) HasYear(year int) bool {
	i := sort.SearchInts(d.years, year)
	return i < len(d.years) && d.years[i] == year
}

// VehicleTypes returns vehicle types in order of first appearance.
func (d *Dataset) VehicleTypes() []string {
	return append([]string(nil), d.vehicleTypes...)
}

// where returns the rows matching keep.
func (d *Dataset) where(keep func(SalesRecord) bool) []SalesRecord {
	var out []SalesRecord
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
