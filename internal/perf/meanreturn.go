package perf

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// MeanReturnOptions selects the axes of the mean-return breakdown.
type MeanReturnOptions struct {
	ByDate  bool
	ByGroup bool
}

// QuantileReturn is the mean forward return of one quantile slice. When the
// slice had fewer than two observations the row carries NaN values and the
// Insufficient flag instead. Date is zero when pooled across dates; Group is
// empty when not split by group.
type QuantileReturn struct {
	Horizon      int       `json:"horizon"`
	Quantile     int       `json:"quantile"`
	Date         time.Time `json:"date,omitempty"`
	Group        string    `json:"group,omitempty"`
	Mean         float64   `json:"mean"`
	StdErr       float64   `json:"std_err"`
	Count        int       `json:"count"`
	Insufficient bool      `json:"insufficient,omitempty"`
}

// MeanReturnByQuantile computes the arithmetic mean and standard error
// (sample std / sqrt(n)) of forward returns per quantile and horizon,
// optionally split by date and/or group. When ByDate is false, observations
// pool across all dates before averaging: the pooled mean weighs every
// underlying observation equally rather than averaging daily means.
func (c *Calculator) MeanReturnByQuantile(opts MeanReturnOptions) []QuantileReturn {
	type sliceKey struct {
		horizon  int
		quantile int
		date     time.Time
		group    string
	}

	samples := make(map[sliceKey][]float64)
	for _, r := range c.records {
		for _, h := range c.horizons {
			fwd, ok := r.ForwardReturn(h)
			if !ok {
				continue
			}
			key := sliceKey{horizon: h, quantile: r.Quantile}
			if opts.ByDate {
				key.date = r.Date
			}
			if opts.ByGroup {
				key.group = r.Group
			}
			samples[key] = append(samples[key], fwd)
		}
	}

	out := make([]QuantileReturn, 0, len(samples))
	for key, values := range samples {
		row := QuantileReturn{
			Horizon:  key.horizon,
			Quantile: key.quantile,
			Date:     key.date,
			Group:    key.group,
			Count:    len(values),
		}
		if len(values) < 2 {
			row.Mean = math.NaN()
			row.StdErr = math.NaN()
			row.Insufficient = true
		} else {
			mean, _ := stats.Mean(values)
			sd, _ := stats.StandardDeviationSample(values)
			row.Mean = mean
			row.StdErr = sd / math.Sqrt(float64(len(values)))
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Horizon != out[j].Horizon {
			return out[i].Horizon < out[j].Horizon
		}
		if out[i].Quantile != out[j].Quantile {
			return out[i].Quantile < out[j].Quantile
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Group < out[j].Group
	})

	return out
}
