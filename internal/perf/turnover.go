package perf

import (
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
)

// TurnoverPoint is the membership turnover of one quantile bucket on one
// date, measured against the bucket `horizon` periods earlier.
type TurnoverPoint struct {
	Date     time.Time             `json:"date"`
	Turnover contracts.Measurement `json:"turnover"`
}

// QuantileTurnover computes, per date, how much of the bucket's membership
// is new: |current \ previous| / |previous|, where previous is the bucket's
// membership `horizon` periods earlier. Dates whose
// baseline set is empty carry the insufficient marker (turnover undefined);
// dates earlier than the horizon produce no point at all.
func (c *Calculator) QuantileTurnover(quantile, horizon int) []TurnoverPoint {
	if horizon <= 0 || quantile < 1 || quantile > c.quantiles {
		return nil
	}

	members := make([]map[string]bool, len(c.axis))
	for i, date := range c.axis {
		set := make(map[string]bool)
		for _, r := range c.byDate[date] {
			if r.Quantile == quantile {
				set[r.Asset] = true
			}
		}
		members[i] = set
	}

	var out []TurnoverPoint
	for i := horizon; i < len(c.axis); i++ {
		prev := members[i-horizon]
		cur := members[i]

		if len(prev) == 0 {
			out = append(out, TurnoverPoint{
				Date:     c.axis[i],
				Turnover: contracts.InsufficientData(0),
			})
			continue
		}

		entered := 0
		for asset := range cur {
			if !prev[asset] {
				entered++
			}
		}
		out = append(out, TurnoverPoint{
			Date: c.axis[i],
			Turnover: contracts.Measurement{
				Value: float64(entered) / float64(len(prev)),
				Count: len(prev),
			},
		})
	}
	return out
}
