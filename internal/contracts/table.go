package contracts

import "math"

// Measurement is a single statistic slot. Slices with too few observations
// carry NaN plus an explicit Insufficient flag instead of failing the run.
type Measurement struct {
	Value        float64 `json:"value"`
	Count        int     `json:"count"`
	Insufficient bool    `json:"insufficient,omitempty"`
}

// InsufficientData is the marker returned for a slice that had fewer
// observations than the statistic requires.
func InsufficientData(count int) Measurement {
	return Measurement{Value: math.NaN(), Count: count, Insufficient: true}
}

// Row is one labeled cell of an output table.
type Row struct {
	Labels map[string]string `json:"labels"`
	Measurement
}

// Table is a flat, labeled result table: every row carries a label per axis,
// so horizon/quantile/date/group dimensions survive reshaping unambiguously.
type Table struct {
	Name string   `json:"name"`
	Axes []string `json:"axes"`
	Rows []Row    `json:"rows"`
}

// Append adds one row to the table.
func (t *Table) Append(labels map[string]string, m Measurement) {
	t.Rows = append(t.Rows, Row{Labels: labels, Measurement: m})
}

// InsufficientCount returns how many rows carry the insufficient-data marker.
func (t *Table) InsufficientCount() int {
	n := 0
	for i := range t.Rows {
		if t.Rows[i].Insufficient {
			n++
		}
	}
	return n
}
