package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/perf"
	"github.com/quantlab/factorlens/pkg/logger"
)

func buildRecords() []contracts.AlignedRecord {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
	}

	var out []contracts.AlignedRecord
	for d := 1; d <= 3; d++ {
		for i, asset := range []string{"A", "B", "C", "D"} {
			out = append(out, contracts.AlignedRecord{
				Date:     day(d),
				Asset:    asset,
				Score:    float64(i + 1),
				Quantile: i/2 + 1,
				Forward:  map[int]float64{1: 0.01 * float64(i+1)},
			})
		}
	}
	contracts.SortAligned(out)
	return out
}

func TestBuild_TableShapes(t *testing.T) {
	calc := perf.NewCalculator(buildRecords(), []int{1}, 2, logger.Nop())
	ts, err := NewBuilder(logger.Nop()).Build(calc, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"horizon", "quantile", "stat"}, ts.MeanReturns.Axes)
	assert.Equal(t, []string{"horizon", "quantile", "date", "stat"}, ts.MeanReturnsDaily.Axes)
	assert.Equal(t, []string{"horizon", "date"}, ts.ICDaily.Axes)
	assert.Equal(t, []string{"horizon", "date"}, ts.LongShort.Axes)
	assert.Equal(t, []string{"quantile", "horizon", "date"}, ts.Turnover.Axes)
	assert.Equal(t, []string{"lag", "date"}, ts.RankAutocorr.Axes)

	// Two quantiles, one horizon, mean + std_err per cell.
	assert.Len(t, ts.MeanReturns.Rows, 4)
	// Three dates per quantile.
	assert.Len(t, ts.MeanReturnsDaily.Rows, 12)
	assert.Len(t, ts.ICDaily.Rows, 3)
	assert.Len(t, ts.LongShort.Rows, 3)

	assert.Nil(t, ts.ICMonthly)
}

func TestBuild_MonthlyICOptional(t *testing.T) {
	calc := perf.NewCalculator(buildRecords(), []int{1}, 2, logger.Nop())
	ts, err := NewBuilder(logger.Nop()).Build(calc, Options{MonthlyIC: true})
	require.NoError(t, err)

	require.NotNil(t, ts.ICMonthly)
	require.Len(t, ts.ICMonthly.Rows, 1)
	assert.Equal(t, "2024-06", ts.ICMonthly.Rows[0].Labels["date"])
}

func TestBuild_LagDefaultsToOne(t *testing.T) {
	calc := perf.NewCalculator(buildRecords(), []int{1}, 2, logger.Nop())
	ts, err := NewBuilder(logger.Nop()).Build(calc, Options{Lag: 0})
	require.NoError(t, err)

	require.NotEmpty(t, ts.RankAutocorr.Rows)
	for _, row := range ts.RankAutocorr.Rows {
		assert.Equal(t, "1", row.Labels["lag"])
	}
}

func TestBuild_GroupAxisAdded(t *testing.T) {
	records := buildRecords()
	for i := range records {
		if records[i].Asset == "A" || records[i].Asset == "B" {
			records[i].Group = "tech"
		} else {
			records[i].Group = "energy"
		}
	}

	calc := perf.NewCalculator(records, []int{1}, 2, logger.Nop())
	ts, err := NewBuilder(logger.Nop()).Build(calc, Options{ByGroup: true})
	require.NoError(t, err)

	assert.Contains(t, ts.MeanReturns.Axes, "group")
	assert.Contains(t, ts.ICDaily.Axes, "group")
}

func TestInsufficientSlices_CountsMarkers(t *testing.T) {
	ts := &TearSheet{}
	ts.ICDaily.Append(map[string]string{"date": "2024-06-01"}, contracts.InsufficientData(1))
	ts.Turnover.Append(map[string]string{"date": "2024-06-02"}, contracts.InsufficientData(0))
	ts.LongShort.Append(map[string]string{"date": "2024-06-01"}, contracts.Measurement{Value: 0.02, Count: 4})

	assert.Equal(t, 2, ts.InsufficientSlices())
}
