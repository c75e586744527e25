package report

import (
	"strconv"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/perf"
)

const dateLayout = "2006-01-02"

// meanReturnTable flattens mean-return rows into a labeled table, keeping
// horizon/quantile/date/group as explicit axes.
func meanReturnTable(name string, rows []perf.QuantileReturn, byDate, byGroup bool) contracts.Table {
	axes := []string{"horizon", "quantile"}
	if byDate {
		axes = append(axes, "date")
	}
	if byGroup {
		axes = append(axes, "group")
	}
	// Standard error rides along as a second value axis.
	axes = append(axes, "stat")

	t := contracts.Table{Name: name, Axes: axes}
	for _, r := range rows {
		labels := map[string]string{
			"horizon":  strconv.Itoa(r.Horizon),
			"quantile": strconv.Itoa(r.Quantile),
		}
		if byDate {
			labels["date"] = r.Date.Format(dateLayout)
		}
		if byGroup {
			labels["group"] = r.Group
		}

		mean := cloneLabels(labels)
		mean["stat"] = "mean"
		t.Append(mean, contracts.Measurement{Value: r.Mean, Count: r.Count, Insufficient: r.Insufficient})

		stderr := cloneLabels(labels)
		stderr["stat"] = "std_err"
		t.Append(stderr, contracts.Measurement{Value: r.StdErr, Count: r.Count, Insufficient: r.Insufficient})
	}
	return t
}

// icTable flattens IC points into a labeled table.
func icTable(name string, points []perf.ICPoint, byGroup bool) contracts.Table {
	axes := []string{"horizon", "date"}
	if byGroup {
		axes = append(axes, "group")
	}

	t := contracts.Table{Name: name, Axes: axes}
	for _, p := range points {
		labels := map[string]string{"horizon": strconv.Itoa(p.Horizon)}
		if p.Period != "" {
			labels["date"] = p.Period
		} else {
			labels["date"] = p.Date.Format(dateLayout)
		}
		if byGroup {
			labels["group"] = p.Group
		}
		t.Append(labels, p.IC)
	}
	return t
}

// longShortTable flattens the long/short return series.
func longShortTable(rows []perf.LongShortReturn) contracts.Table {
	t := contracts.Table{Name: "factor_weighted_long_short", Axes: []string{"horizon", "date"}}
	for _, r := range rows {
		t.Append(map[string]string{
			"horizon": strconv.Itoa(r.Horizon),
			"date":    r.Date.Format(dateLayout),
		}, contracts.Measurement{Value: r.Return, Count: r.Count})
	}
	return t
}

// turnoverTable flattens per-bucket turnover series into one table keyed by
// quantile, horizon and date.
func turnoverTable(series map[turnoverKey][]perf.TurnoverPoint) contracts.Table {
	t := contracts.Table{Name: "quantile_turnover", Axes: []string{"quantile", "horizon", "date"}}
	for key, points := range series {
		for _, p := range points {
			t.Append(map[string]string{
				"quantile": strconv.Itoa(key.quantile),
				"horizon":  strconv.Itoa(key.horizon),
				"date":     p.Date.Format(dateLayout),
			}, p.Turnover)
		}
	}
	return t
}

// autocorrTable flattens the rank-autocorrelation series.
func autocorrTable(lag int, points []perf.AutocorrPoint) contracts.Table {
	t := contracts.Table{Name: "factor_rank_autocorrelation", Axes: []string{"lag", "date"}}
	for _, p := range points {
		t.Append(map[string]string{
			"lag":  strconv.Itoa(lag),
			"date": p.Date.Format(dateLayout),
		}, p.Corr)
	}
	return t
}

func cloneLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		out[k] = v
	}
	return out
}
