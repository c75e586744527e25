package align

import (
	"sort"
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/pkg/logger"
)

// Aligner joins factor observations with price history and computes forward
// returns per holding horizon. Horizons count positions on the ordered axis
// of distinct observation dates, so a horizon of 5 means "five cross-sections
// later", regardless of calendar gaps.
type Aligner struct {
	logger *logger.Logger
}

// NewAligner creates a new aligner.
func NewAligner(log *logger.Logger) *Aligner {
	return &Aligner{logger: log}
}

// Stats counts the data issues absorbed during alignment.
type Stats struct {
	Input              int
	Dropped            int         // no resolvable forward return on any horizon
	UndefinedCells     map[int]int // horizon -> undefined forward-return count
	AssetsWithoutPrice int         // scored assets with no price history at all
	MaxMissingFraction float64     // worst per-date fraction of unpriceable observations
}

// Align produces aligned records sorted by (date, asset) ascending. A record
// survives when at least one horizon has a resolvable forward return; missing
// price cells leave the horizon undefined, never zero. Data gaps are counted
// in Stats and logged, but never fail the call.
func (a *Aligner) Align(obs []contracts.FactorObservation, prices contracts.PriceSource, groups contracts.GroupSource, horizons []int) ([]contracts.AlignedRecord, Stats) {
	stats := Stats{Input: len(obs), UndefinedCells: make(map[int]int)}
	if len(obs) == 0 {
		return nil, stats
	}

	// Normalize observation dates and build the ordered date axis.
	normalized := make([]contracts.FactorObservation, len(obs))
	dateSet := make(map[time.Time]bool)
	for i, o := range obs {
		o.Date = contracts.Day(o.Date)
		normalized[i] = o
		dateSet[o.Date] = true
	}
	axis := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		axis = append(axis, d)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })
	dateIndex := make(map[time.Time]int, len(axis))
	for i, d := range axis {
		dateIndex[d] = i
	}

	// Track assets that never resolve a price, and per-date miss fractions.
	assetUnpriced := make(map[string]bool)
	missingByDate := make(map[time.Time]int)
	totalByDate := make(map[time.Time]int)

	records := make([]contracts.AlignedRecord, 0, len(normalized))
	for _, o := range normalized {
		totalByDate[o.Date]++

		base, baseOK := prices.Price(o.Asset, o.Date)
		if !baseOK {
			missingByDate[o.Date]++
		}

		rec := contracts.AlignedRecord{
			Date:    o.Date,
			Asset:   o.Asset,
			Score:   o.Score,
			Forward: make(map[int]float64, len(horizons)),
		}
		if label, ok := groups.Group(o.Asset, o.Date); ok {
			rec.Group = label
		}

		idx := dateIndex[o.Date]
		for _, h := range horizons {
			if !baseOK || base == 0 {
				stats.UndefinedCells[h]++
				continue
			}
			future := idx + h
			if future >= len(axis) {
				stats.UndefinedCells[h]++
				continue
			}
			px, ok := prices.Price(o.Asset, axis[future])
			if !ok {
				stats.UndefinedCells[h]++
				continue
			}
			rec.Forward[h] = px/base - 1
		}

		if len(rec.Forward) == 0 {
			stats.Dropped++
			if !hasAnyPrice(prices, o.Asset, axis) {
				assetUnpriced[o.Asset] = true
			}
			continue
		}
		records = append(records, rec)
	}

	stats.AssetsWithoutPrice = len(assetUnpriced)
	for d, miss := range missingByDate {
		frac := float64(miss) / float64(totalByDate[d])
		if frac > stats.MaxMissingFraction {
			stats.MaxMissingFraction = frac
		}
	}

	contracts.SortAligned(records)

	if stats.Dropped > 0 || stats.AssetsWithoutPrice > 0 {
		a.logger.WithFields(map[string]interface{}{
			"input":                len(obs),
			"aligned":              len(records),
			"dropped":              stats.Dropped,
			"assets_without_price": stats.AssetsWithoutPrice,
			"max_missing_fraction": stats.MaxMissingFraction,
		}).Warn("Alignment dropped records with unresolvable forward returns")
	} else {
		a.logger.WithFields(map[string]interface{}{
			"input":   len(obs),
			"aligned": len(records),
		}).Debug("Alignment completed")
	}

	return records, stats
}

// hasAnyPrice reports whether the asset resolves a price on any axis date.
func hasAnyPrice(prices contracts.PriceSource, asset string, axis []time.Time) bool {
	for _, d := range axis {
		if _, ok := prices.Price(asset, d); ok {
			return true
		}
	}
	return false
}
