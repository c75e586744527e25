package perf

import (
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/pkg/logger"
)

// Calculator exposes the read-only performance computations over a fully
// aligned and bucketed dataset. It owns no mutable state beyond the indexes
// it builds at construction, so one instance can serve all five metrics.
type Calculator struct {
	records   []contracts.AlignedRecord
	horizons  []int
	quantiles int
	logger    *logger.Logger

	axis   []time.Time
	byDate map[time.Time][]contracts.AlignedRecord
}

// NewCalculator indexes the dataset for metric computation. Records must
// already be bucketed and sorted by (date, asset).
func NewCalculator(records []contracts.AlignedRecord, horizons []int, quantiles int, log *logger.Logger) *Calculator {
	byDate := make(map[time.Time][]contracts.AlignedRecord)
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	return &Calculator{
		records:   records,
		horizons:  horizons,
		quantiles: quantiles,
		logger:    log,
		axis:      contracts.DateAxis(records),
		byDate:    byDate,
	}
}

// Horizons returns the holding horizons of this analysis.
func (c *Calculator) Horizons() []int { return c.horizons }

// Quantiles returns the bucket count of this analysis.
func (c *Calculator) Quantiles() int { return c.quantiles }

// Dates returns the ordered date axis of the dataset.
func (c *Calculator) Dates() []time.Time { return c.axis }
