package report

import (
	"fmt"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/perf"
	"github.com/quantlab/factorlens/pkg/logger"
)

// Options controls which axes the tear sheet carries.
type Options struct {
	ByGroup   bool // split mean returns and ICs by the grouping label
	MonthlyIC bool // add a calendar-month IC table next to the daily one
	Lag       int  // rank-autocorrelation lag; defaults to 1
}

// TearSheet bundles every output table of one analysis run. All tables are
// flat and fully labeled, ready for a downstream renderer or store.
type TearSheet struct {
	MeanReturns      contracts.Table  `json:"mean_returns"`        // pooled across dates
	MeanReturnsDaily contracts.Table  `json:"mean_returns_daily"`  // per-date breakdown
	ICDaily          contracts.Table  `json:"ic_daily"`
	ICMonthly        *contracts.Table `json:"ic_monthly,omitempty"`
	LongShort        contracts.Table  `json:"long_short"`
	Turnover         contracts.Table  `json:"turnover"`
	RankAutocorr     contracts.Table  `json:"rank_autocorr"`
}

// InsufficientSlices counts marker rows across all tables.
func (ts *TearSheet) InsufficientSlices() int {
	n := ts.MeanReturns.InsufficientCount() +
		ts.MeanReturnsDaily.InsufficientCount() +
		ts.ICDaily.InsufficientCount() +
		ts.LongShort.InsufficientCount() +
		ts.Turnover.InsufficientCount() +
		ts.RankAutocorr.InsufficientCount()
	if ts.ICMonthly != nil {
		n += ts.ICMonthly.InsufficientCount()
	}
	return n
}

// Builder assembles tear sheets from a metrics calculator. Pure reshaping:
// the only numeric operation performed here is the monthly IC mean, done
// inside the metrics layer itself.
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a tear-sheet builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{logger: log}
}

type turnoverKey struct {
	quantile int
	horizon  int
}

// Build runs every metric and flattens the results. Turnover is reported for
// the bottom and top buckets across all horizons, the pair a long/short
// reading of the factor actually trades.
func (b *Builder) Build(calc *perf.Calculator, opts Options) (*TearSheet, error) {
	lag := opts.Lag
	if lag <= 0 {
		lag = 1
	}

	ts := &TearSheet{}

	pooled := calc.MeanReturnByQuantile(perf.MeanReturnOptions{ByGroup: opts.ByGroup})
	ts.MeanReturns = meanReturnTable("mean_return_by_quantile", pooled, false, opts.ByGroup)

	daily := calc.MeanReturnByQuantile(perf.MeanReturnOptions{ByDate: true, ByGroup: opts.ByGroup})
	ts.MeanReturnsDaily = meanReturnTable("mean_return_by_quantile_daily", daily, true, opts.ByGroup)

	ts.ICDaily = icTable("information_coefficient", calc.InformationCoefficient(perf.ICOptions{ByGroup: opts.ByGroup}), opts.ByGroup)
	if opts.MonthlyIC {
		monthly := icTable("information_coefficient_monthly",
			calc.InformationCoefficient(perf.ICOptions{ByGroup: opts.ByGroup, Monthly: true}), opts.ByGroup)
		ts.ICMonthly = &monthly
	}

	longShort, err := calc.FactorWeightedLongShort()
	if err != nil {
		return nil, fmt.Errorf("long/short series failed: %w", err)
	}
	ts.LongShort = longShortTable(longShort)

	turnover := make(map[turnoverKey][]perf.TurnoverPoint)
	for _, q := range []int{1, calc.Quantiles()} {
		for _, h := range calc.Horizons() {
			turnover[turnoverKey{quantile: q, horizon: h}] = calc.QuantileTurnover(q, h)
		}
	}
	ts.Turnover = turnoverTable(turnover)

	ts.RankAutocorr = autocorrTable(lag, calc.FactorRankAutocorrelation(lag))

	b.logger.WithFields(map[string]interface{}{
		"dates":               len(calc.Dates()),
		"horizons":            calc.Horizons(),
		"quantiles":           calc.Quantiles(),
		"insufficient_slices": ts.InsufficientSlices(),
	}).Info("Tear sheet assembled")

	return ts, nil
}
