package quantile

import (
	"sort"
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/pkg/logger"
)

// DefaultQuantiles is the bucket count used when the caller does not choose one.
const DefaultQuantiles = 5

// Bucketer assigns each aligned record to an equal-population quantile,
// computed independently per date from that date's cross-section of scores.
// Bucket 1 holds the lowest scores, bucket Q the highest.
type Bucketer struct {
	quantiles int
	logger    *logger.Logger
}

// NewBucketer creates a bucketer for Q groups.
func NewBucketer(quantiles int, log *logger.Logger) *Bucketer {
	return &Bucketer{quantiles: quantiles, logger: log}
}

// Stats counts dates that could not be bucketed.
type Stats struct {
	Dates        int
	SkippedDates int // fewer distinct scores than quantile groups
}

// Assign returns the records that received a bucket, sorted by (date, asset).
// Dates with fewer distinct scores than Q are excluded wholesale and counted.
// Ties rank by asset ID ascending so assignment is deterministic.
func (b *Bucketer) Assign(records []contracts.AlignedRecord) ([]contracts.AlignedRecord, Stats) {
	byDate := make(map[time.Time][]contracts.AlignedRecord)
	for _, r := range records {
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	stats := Stats{Dates: len(byDate)}
	out := make([]contracts.AlignedRecord, 0, len(records))

	for date, section := range byDate {
		distinct := make(map[float64]bool, len(section))
		for i := range section {
			distinct[section[i].Score] = true
		}
		if len(distinct) < b.quantiles {
			stats.SkippedDates++
			b.logger.WithFields(map[string]interface{}{
				"date":            date.Format("2006-01-02"),
				"assets":          len(section),
				"distinct_scores": len(distinct),
				"quantiles":       b.quantiles,
			}).Warn("Date excluded from bucketing: not enough distinct scores")
			continue
		}

		// Rank ascending by score, asset ID as the tie-break.
		sort.Slice(section, func(i, j int) bool {
			if section[i].Score != section[j].Score {
				return section[i].Score < section[j].Score
			}
			return section[i].Asset < section[j].Asset
		})

		// Rank-proportional assignment: sorted index i of N gets bucket
		// i*Q/N + 1, which keeps every group within one of N/Q members.
		n := len(section)
		for i := range section {
			section[i].Quantile = i*b.quantiles/n + 1
		}

		out = append(out, section...)
	}

	contracts.SortAligned(out)

	b.logger.WithFields(map[string]interface{}{
		"dates":     stats.Dates,
		"skipped":   stats.SkippedDates,
		"quantiles": b.quantiles,
		"records":   len(out),
	}).Debug("Quantile bucketing completed")

	return out, stats
}
