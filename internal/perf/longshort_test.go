package perf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/pkg/logger"
)

func TestNeutralWeights_NetNeutralUnitGross(t *testing.T) {
	weights := neutralWeights([]float64{1, 2, 3, 4})

	net, gross := 0.0, 0.0
	for _, w := range weights {
		net += w
		gross += abs(w)
	}
	assert.InDelta(t, 0.0, net, 1e-12)
	assert.InDelta(t, 1.0, gross, 1e-12)

	// Highest score longest, lowest score shortest.
	assert.Negative(t, weights[0])
	assert.Positive(t, weights[3])
}

func TestFactorWeightedLongShort_KnownValue(t *testing.T) {
	// Scores 1,2,3 -> demeaned -1,0,1 -> weights -0.5,0,0.5.
	// Returns -2%,0%,+4% -> portfolio = 0.5*0.04 - 0.5*(-0.02) = 0.03.
	records := dataset(map[int][]obs{
		1: {
			{asset: "A", score: 1, quantile: 1, forward: fwd(-0.02)},
			{asset: "B", score: 2, quantile: 2, forward: fwd(0.00)},
			{asset: "C", score: 3, quantile: 3, forward: fwd(0.04)},
		},
	})

	calc := NewCalculator(records, []int{1}, 3, logger.Nop())
	series, err := calc.FactorWeightedLongShort()
	require.NoError(t, err)

	require.Len(t, series, 1)
	assert.InDelta(t, 0.03, series[0].Return, 1e-12)
	assert.Equal(t, 3, series[0].Count)
}

func TestFactorWeightedLongShort_DegenerateDateFailsExplicitly(t *testing.T) {
	records := dataset(map[int][]obs{
		1: {
			{asset: "A", score: 1, quantile: 1, forward: fwd(0.01)},
			{asset: "B", score: 2, quantile: 2, forward: fwd(0.02)},
		},
		2: {
			{asset: "A", score: 5, quantile: 1, forward: fwd(0.01)},
			{asset: "B", score: 5, quantile: 2, forward: fwd(0.02)}, // no spread
		},
	})

	calc := NewCalculator(records, []int{1}, 2, logger.Nop())
	_, err := calc.FactorWeightedLongShort()

	require.Error(t, err)
	var popErr contracts.InsufficientPopulationError
	require.True(t, errors.As(err, &popErr))
	assert.True(t, popErr.Date.Equal(day(2)))
	assert.Equal(t, 1, popErr.Got)
}

func TestFactorWeightedLongShort_SkipsUndefinedHorizonSubsets(t *testing.T) {
	records := dataset(map[int][]obs{
		1: {
			{asset: "A", score: 1, quantile: 1, forward: map[int]float64{1: 0.01}},
			{asset: "B", score: 2, quantile: 1, forward: map[int]float64{1: 0.02}},
			{asset: "C", score: 3, quantile: 2, forward: map[int]float64{1: 0.03, 5: 0.10}},
		},
	})

	// Horizon 5 resolves for a single asset only: no basket, no row.
	calc := NewCalculator(records, []int{1, 5}, 2, logger.Nop())
	series, err := calc.FactorWeightedLongShort()
	require.NoError(t, err)

	require.Len(t, series, 1)
	assert.Equal(t, 1, series[0].Horizon)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
