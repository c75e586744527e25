package perf

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/quantlab/factorlens/internal/contracts"
)

// ranks converts values to ranks 1..n, averaging tied runs so that equal
// values share the same rank.
func ranks(values []float64) []float64 {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// Average rank for the tie run [i, j].
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}

// spearman computes the Spearman rank correlation of two paired samples.
// Fewer than two pairs, or a sample with no rank variation, yields the
// insufficient-data marker rather than an error.
func spearman(x, y []float64) contracts.Measurement {
	n := len(x)
	if n < 2 || len(y) != n {
		return contracts.InsufficientData(n)
	}

	rx := ranks(x)
	ry := ranks(y)
	if allEqual(rx) || allEqual(ry) {
		return contracts.InsufficientData(n)
	}

	r, err := stats.Pearson(rx, ry)
	if err != nil {
		return contracts.InsufficientData(n)
	}
	return contracts.Measurement{Value: r, Count: n}
}

func allEqual(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}
