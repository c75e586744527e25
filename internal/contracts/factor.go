package contracts

import "time"

// FactorObservation is a single cross-sectional factor score: one asset,
// one date, one raw value. Observations are produced upstream and are
// immutable once they enter the engine.
type FactorObservation struct {
	Date  time.Time `json:"date"`
	Asset string    `json:"asset"`
	Score float64   `json:"score"`
}

// PriceSource supplies historical prices to the alignment stage.
// Implementations must tolerate gaps (non-trading days, delistings):
// a missing cell is reported as ok=false, never as a zero price.
type PriceSource interface {
	Price(asset string, date time.Time) (float64, bool)
}

// GroupSource supplies an optional categorical label per asset (e.g. a
// sector code), optionally keyed by date. Used only for reporting
// aggregation, never for bucketing.
type GroupSource interface {
	Group(asset string, date time.Time) (string, bool)
}

// Day normalizes a timestamp to UTC midnight so that map lookups keyed by
// date behave regardless of the source timezone or intraday component.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PriceTable is an in-memory PriceSource: asset -> day -> price.
type PriceTable map[string]map[time.Time]float64

// NewPriceTable creates an empty price table.
func NewPriceTable() PriceTable {
	return make(PriceTable)
}

// Set records a price cell, normalizing the date.
func (pt PriceTable) Set(asset string, date time.Time, price float64) {
	day := Day(date)
	if pt[asset] == nil {
		pt[asset] = make(map[time.Time]float64)
	}
	pt[asset][day] = price
}

// Price implements PriceSource.
func (pt PriceTable) Price(asset string, date time.Time) (float64, bool) {
	series, ok := pt[asset]
	if !ok {
		return 0, false
	}
	px, ok := series[Day(date)]
	return px, ok
}

// Has reports whether any price exists for the asset at all.
func (pt PriceTable) Has(asset string) bool {
	return len(pt[asset]) > 0
}

// StaticGroups is a GroupSource backed by a fixed asset -> label map,
// for groupings that do not vary over time.
type StaticGroups map[string]string

// Group implements GroupSource.
func (g StaticGroups) Group(asset string, _ time.Time) (string, bool) {
	label, ok := g[asset]
	return label, ok
}

// NoGroups is a GroupSource that never matches, for runs without a
// grouping dimension.
type NoGroups struct{}

// Group implements GroupSource.
func (NoGroups) Group(string, time.Time) (string, bool) { return "", false }
