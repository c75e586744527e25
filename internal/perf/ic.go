package perf

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/quantlab/factorlens/internal/contracts"
)

// ICOptions selects the axes of the information-coefficient series.
type ICOptions struct {
	ByGroup bool
	// Monthly aggregates the daily series into calendar months, taking the
	// mean of the defined daily coefficients within each month.
	Monthly bool
}

// ICPoint is one information coefficient: the Spearman rank correlation
// between raw score and forward return over one date's cross-section (or one
// month's mean when resampled).
type ICPoint struct {
	Horizon int                   `json:"horizon"`
	Date    time.Time             `json:"date,omitempty"`
	Period  string                `json:"period,omitempty"` // calendar month key when resampled
	Group   string                `json:"group,omitempty"`
	IC      contracts.Measurement `json:"ic"`
}

// InformationCoefficient computes the daily IC per horizon (and group when
// requested). Cross-sections with fewer than two pairs, or with no variation
// in score or return ranks, yield the insufficient-data marker for that slot.
func (c *Calculator) InformationCoefficient(opts ICOptions) []ICPoint {
	var out []ICPoint

	for _, date := range c.axis {
		section := c.byDate[date]
		for _, h := range c.horizons {
			if opts.ByGroup {
				for group, part := range splitByGroup(section) {
					out = append(out, ICPoint{
						Horizon: h,
						Date:    date,
						Group:   group,
						IC:      sectionIC(part, h),
					})
				}
			} else {
				out = append(out, ICPoint{
					Horizon: h,
					Date:    date,
					IC:      sectionIC(section, h),
				})
			}
		}
	}

	if opts.Monthly {
		out = resampleMonthly(out)
	}

	sortICPoints(out)
	return out
}

// sectionIC computes Spearman(score, forward return) over one cross-section,
// using only records with the horizon defined.
func sectionIC(section []contracts.AlignedRecord, horizon int) contracts.Measurement {
	var scores, returns []float64
	for i := range section {
		fwd, ok := section[i].ForwardReturn(horizon)
		if !ok {
			continue
		}
		scores = append(scores, section[i].Score)
		returns = append(returns, fwd)
	}
	return spearman(scores, returns)
}

func splitByGroup(section []contracts.AlignedRecord) map[string][]contracts.AlignedRecord {
	parts := make(map[string][]contracts.AlignedRecord)
	for i := range section {
		parts[section[i].Group] = append(parts[section[i].Group], section[i])
	}
	return parts
}

// resampleMonthly collapses daily points into calendar-month means. Months
// where every daily point was insufficient stay insufficient.
func resampleMonthly(daily []ICPoint) []ICPoint {
	type bucketKey struct {
		horizon int
		period  string
		group   string
	}

	values := make(map[bucketKey][]float64)
	counts := make(map[bucketKey]int)
	for _, p := range daily {
		key := bucketKey{horizon: p.Horizon, period: p.Date.Format("2006-01"), group: p.Group}
		counts[key]++
		if !p.IC.Insufficient {
			values[key] = append(values[key], p.IC.Value)
		}
	}

	out := make([]ICPoint, 0, len(counts))
	for key, n := range counts {
		point := ICPoint{Horizon: key.horizon, Period: key.period, Group: key.group}
		if defined := values[key]; len(defined) > 0 {
			mean, _ := stats.Mean(defined)
			point.IC = contracts.Measurement{Value: mean, Count: len(defined)}
		} else {
			point.IC = contracts.InsufficientData(n)
		}
		out = append(out, point)
	}
	return out
}

func sortICPoints(points []ICPoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Horizon != points[j].Horizon {
			return points[i].Horizon < points[j].Horizon
		}
		if points[i].Period != points[j].Period {
			return points[i].Period < points[j].Period
		}
		if !points[i].Date.Equal(points[j].Date) {
			return points[i].Date.Before(points[j].Date)
		}
		return points[i].Group < points[j].Group
	})
}
