package contracts

import (
	"sort"
	"time"
)

// QuantileUnassigned marks a record whose date could not be bucketed
// (fewer distinct scores than quantile groups). Valid buckets are 1..Q.
const QuantileUnassigned = 0

// AlignedRecord is the joined view of one (date, asset) factor observation:
// the raw score, the forward return per holding horizon, the quantile bucket
// assigned from that date's cross-section, and the optional group label.
// Records are never mutated after the bucketing stage completes; a horizon
// absent from Forward means the return is undefined, not zero.
type AlignedRecord struct {
	Date     time.Time       `json:"date"`
	Asset    string          `json:"asset"`
	Score    float64         `json:"score"`
	Forward  map[int]float64 `json:"forward"`
	Quantile int             `json:"quantile"`
	Group    string          `json:"group,omitempty"`
}

// ForwardReturn returns the forward return for a horizon, ok=false when the
// return could not be computed for this record.
func (r *AlignedRecord) ForwardReturn(horizon int) (float64, bool) {
	v, ok := r.Forward[horizon]
	return v, ok
}

// SortAligned orders records by (date, asset) ascending, the canonical
// ordering every downstream stage relies on.
func SortAligned(records []AlignedRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Asset < records[j].Asset
	})
}

// DateAxis returns the sorted distinct dates present in records.
func DateAxis(records []AlignedRecord) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for i := range records {
		if !seen[records[i].Date] {
			seen[records[i].Date] = true
			dates = append(dates, records[i].Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
