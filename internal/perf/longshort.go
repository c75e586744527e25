package perf

import (
	"math"
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
)

// LongShortReturn is one point of the factor-weighted long/short portfolio
// return series.
type LongShortReturn struct {
	Date    time.Time `json:"date"`
	Horizon int       `json:"horizon"`
	Return  float64   `json:"return"`
	Count   int       `json:"count"`
}

// FactorWeightedLongShort builds, for each date and horizon, a net-neutral
// portfolio return: per-date raw scores are demeaned and scaled so the sum of
// absolute weights is one, then applied to forward returns. Weights are
// recomputed per horizon over the assets whose return is defined, keeping the
// basket neutral after drops. A date whose cross-section has fewer than two
// distinct scores fails the call explicitly rather than yielding NaN.
func (c *Calculator) FactorWeightedLongShort() ([]LongShortReturn, error) {
	var out []LongShortReturn

	for _, date := range c.axis {
		section := c.byDate[date]

		if n := distinctScores(section); n < 2 {
			return nil, contracts.InsufficientPopulationError{
				Date: date,
				What: "long/short portfolio: distinct scores",
				Need: 2,
				Got:  n,
			}
		}

		for _, h := range c.horizons {
			var scores, returns []float64
			for i := range section {
				fwd, ok := section[i].ForwardReturn(h)
				if !ok {
					continue
				}
				scores = append(scores, section[i].Score)
				returns = append(returns, fwd)
			}
			if len(scores) < 2 || allEqual(scores) {
				// No basket can be formed on this horizon subset.
				continue
			}

			weights := neutralWeights(scores)
			ret := 0.0
			for i, w := range weights {
				ret += w * returns[i]
			}
			out = append(out, LongShortReturn{Date: date, Horizon: h, Return: ret, Count: len(scores)})
		}
	}

	return out, nil
}

// neutralWeights demeans scores and normalizes so sum(|w|) == 1. The input
// must contain at least two distinct values.
func neutralWeights(scores []float64) []float64 {
	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	weights := make([]float64, len(scores))
	total := 0.0
	for i, s := range scores {
		weights[i] = s - mean
		total += math.Abs(weights[i])
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

func distinctScores(section []contracts.AlignedRecord) int {
	seen := make(map[float64]bool, len(section))
	for i := range section {
		seen[section[i].Score] = true
	}
	return len(seen)
}
