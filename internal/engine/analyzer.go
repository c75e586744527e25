package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quantlab/factorlens/internal/align"
	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/perf"
	"github.com/quantlab/factorlens/internal/quantile"
	"github.com/quantlab/factorlens/internal/report"
	"github.com/quantlab/factorlens/pkg/logger"
)

// Analyzer orchestrates the four stages of a factor evaluation: alignment,
// bucketing, metrics and reporting. Each Run is independent; the analyzer
// holds no state between invocations, so one instance is safe to share.
type Analyzer struct {
	logger *logger.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(log *logger.Logger) *Analyzer {
	return &Analyzer{logger: log}
}

// Input carries everything one run consumes. Groups may be nil when the
// analysis has no grouping dimension.
type Input struct {
	Factors  []contracts.FactorObservation
	Prices   contracts.PriceSource
	Groups   contracts.GroupSource
	Settings Settings
}

// RunResult is the complete outcome of one run: the tear sheet plus the
// diagnostics summary of every non-fatal issue absorbed along the way.
type RunResult struct {
	ID          uuid.UUID             `json:"id"`
	CreatedAt   time.Time             `json:"created_at"`
	Settings    Settings              `json:"settings"`
	TearSheet   *report.TearSheet     `json:"tear_sheet"`
	Diagnostics *contracts.Diagnostics `json:"diagnostics"`
}

// Run executes a full analysis. Only configuration problems return an error;
// data gaps and thin slices surface in RunResult.Diagnostics instead.
func (a *Analyzer) Run(ctx context.Context, input Input) (*RunResult, error) {
	if err := input.Settings.Validate(); err != nil {
		return nil, err
	}
	if len(input.Factors) == 0 {
		return nil, contracts.ConfigurationError{Field: "factors", Message: "no factor observations"}
	}
	if input.Prices == nil {
		return nil, contracts.ConfigurationError{Field: "prices", Message: "price source required"}
	}

	groups := input.Groups
	if groups == nil {
		groups = contracts.NoGroups{}
	}

	start := time.Now()
	diag := contracts.NewDiagnostics()
	diag.InputObservations = len(input.Factors)

	aligner := align.NewAligner(a.logger)
	records, alignStats := aligner.Align(input.Factors, input.Prices, groups, input.Settings.Horizons)
	diag.DroppedNoForward = alignStats.Dropped
	diag.UndefinedCells = alignStats.UndefinedCells
	diag.AssetsWithoutPrice = alignStats.AssetsWithoutPrice
	diag.MaxMissingFraction = alignStats.MaxMissingFraction

	if len(records) == 0 {
		return nil, contracts.ConfigurationError{
			Field:   "inputs",
			Message: "no overlapping dates between factor and price sources",
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bucketer := quantile.NewBucketer(input.Settings.Quantiles, a.logger)
	records, bucketStats := bucketer.Assign(records)
	diag.SkippedDates = bucketStats.SkippedDates
	diag.AlignedRecords = len(records)

	if len(records) == 0 {
		return nil, contracts.ConfigurationError{
			Field:   "inputs",
			Message: "no date had enough distinct scores for bucketing",
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	calc := perf.NewCalculator(records, input.Settings.Horizons, input.Settings.Quantiles, a.logger)
	builder := report.NewBuilder(a.logger)
	tearSheet, err := builder.Build(calc, report.Options{
		ByGroup:   input.Settings.ByGroup,
		MonthlyIC: input.Settings.MonthlyIC,
		Lag:       input.Settings.Lag,
	})
	if err != nil {
		return nil, err
	}
	diag.InsufficientSlices = tearSheet.InsufficientSlices()

	result := &RunResult{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		Settings:    input.Settings,
		TearSheet:   tearSheet,
		Diagnostics: diag,
	}

	a.logger.WithFields(map[string]interface{}{
		"run_id":       result.ID.String(),
		"observations": diag.InputObservations,
		"aligned":      diag.AlignedRecords,
		"duration":     time.Since(start),
		"clean":        diag.Clean(),
	}).Info("Analysis run completed")

	return result, nil
}
