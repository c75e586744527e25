package perf

import (
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
)

// AutocorrPoint is the rank persistence of the factor on one date: the
// Spearman correlation between each asset's score rank on this date and
// its rank `lag` periods earlier.
type AutocorrPoint struct {
	Date time.Time             `json:"date"`
	Corr contracts.Measurement `json:"corr"`
}

// FactorRankAutocorrelation correlates score ranks on date d against date
// d−lag, restricted to assets present in both cross-sections. Pairs with
// fewer than two common assets, or with no rank variation, carry the
// insufficient marker.
func (c *Calculator) FactorRankAutocorrelation(lag int) []AutocorrPoint {
	if lag <= 0 {
		return nil
	}

	scoreAt := make([]map[string]float64, len(c.axis))
	for i, date := range c.axis {
		section := c.byDate[date]
		scores := make(map[string]float64, len(section))
		for _, r := range section {
			scores[r.Asset] = r.Score
		}
		scoreAt[i] = scores
	}

	var out []AutocorrPoint
	for i := lag; i < len(c.axis); i++ {
		prev := scoreAt[i-lag]
		cur := scoreAt[i]

		var now, before []float64
		for asset, s := range cur {
			if p, ok := prev[asset]; ok {
				now = append(now, s)
				before = append(before, p)
			}
		}

		out = append(out, AutocorrPoint{
			Date: c.axis[i],
			Corr: spearman(before, now),
		})
	}
	return out
}
