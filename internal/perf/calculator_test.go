package perf

import (
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
)

// Shared fixtures for the metric tests.

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

type obs struct {
	asset    string
	score    float64
	quantile int
	forward  map[int]float64
	group    string
}

// dataset builds bucketed, aligned records for a sequence of cross-sections.
func dataset(sections map[int][]obs) []contracts.AlignedRecord {
	var out []contracts.AlignedRecord
	for d, section := range sections {
		for _, o := range section {
			out = append(out, contracts.AlignedRecord{
				Date:     day(d),
				Asset:    o.asset,
				Score:    o.score,
				Quantile: o.quantile,
				Forward:  o.forward,
				Group:    o.group,
			})
		}
	}
	contracts.SortAligned(out)
	return out
}

func fwd(v float64) map[int]float64 {
	return map[int]float64{1: v}
}
