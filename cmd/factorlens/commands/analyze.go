package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantlab/factorlens/internal/analysisconfig"
	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/engine"
	"github.com/quantlab/factorlens/internal/source"
	"github.com/quantlab/factorlens/pkg/logger"
)

// analyzeCmd runs one analysis over CSV inputs
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a factor analysis over CSV inputs",
	Long: `Runs the full evaluation pipeline over CSV files and writes the
tear sheet as JSON.

Input layouts (header row required):
  factors.csv  date,asset,score
  prices.csv   date,asset,price
  groups.csv   asset,group       (optional)

Example:
  go run ./cmd/factorlens analyze --factors factors.csv --prices prices.csv
  go run ./cmd/factorlens analyze --factors f.csv --prices p.csv --settings analysis.yaml --out tearsheet.json`,
	RunE: runAnalyze,
}

var (
	analyzeFactors  string
	analyzePrices   string
	analyzeGroups   string
	analyzeSettings string
	analyzeOut      string
	analyzeQ        int
	analyzeHorizons []int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFactors, "factors", "", "factor CSV (date,asset,score)")
	analyzeCmd.Flags().StringVar(&analyzePrices, "prices", "", "price CSV (date,asset,price)")
	analyzeCmd.Flags().StringVar(&analyzeGroups, "groups", "", "group CSV (asset,group), optional")
	analyzeCmd.Flags().StringVar(&analyzeSettings, "settings", "", "analysis settings YAML, optional")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write tear sheet JSON to file (default: stdout)")
	analyzeCmd.Flags().IntVar(&analyzeQ, "quantiles", 0, "quantile groups (overrides settings)")
	analyzeCmd.Flags().IntSliceVar(&analyzeHorizons, "horizons", nil, "holding horizons (overrides settings)")

	analyzeCmd.MarkFlagRequired("factors")
	analyzeCmd.MarkFlagRequired("prices")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(level, "console")

	settings := engine.DefaultSettings()
	if analyzeSettings != "" {
		cfg, _, err := analysisconfig.Load(analyzeSettings)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		settings = cfg.Settings()
	}
	if analyzeQ > 0 {
		settings.Quantiles = analyzeQ
	}
	if len(analyzeHorizons) > 0 {
		settings.Horizons = analyzeHorizons
	}

	factors, err := source.LoadFactorsCSV(analyzeFactors)
	if err != nil {
		return fmt.Errorf("load factors: %w", err)
	}
	prices, err := source.LoadPricesCSV(analyzePrices)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	var groups contracts.GroupSource = contracts.NoGroups{}
	if analyzeGroups != "" {
		g, err := source.LoadGroupsCSV(analyzeGroups)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		groups = g
	}

	analyzer := engine.NewAnalyzer(log)
	result, err := analyzer.Run(context.Background(), engine.Input{
		Factors:  factors,
		Prices:   prices,
		Groups:   groups,
		Settings: settings,
	})
	if err != nil {
		return err
	}

	printSummary(result)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if analyzeOut != "" {
		if err := os.WriteFile(analyzeOut, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Tear sheet written to %s\n", analyzeOut)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

func printSummary(result *engine.RunResult) {
	d := result.Diagnostics
	horizons := make([]string, len(result.Settings.Horizons))
	for i, h := range result.Settings.Horizons {
		horizons[i] = fmt.Sprintf("%d", h)
	}

	fmt.Println("=== factorlens analysis ===")
	fmt.Printf("Run ID:        %s\n", result.ID)
	fmt.Printf("Quantiles:     %d\n", result.Settings.Quantiles)
	fmt.Printf("Horizons:      %s\n", strings.Join(horizons, ", "))
	fmt.Printf("Observations:  %d (aligned: %d)\n", d.InputObservations, d.AlignedRecords)
	if !d.Clean() {
		fmt.Printf("Diagnostics:   dropped=%d skipped_dates=%d unpriced_assets=%d insufficient=%d\n",
			d.DroppedNoForward, d.SkippedDates, d.AssetsWithoutPrice, d.InsufficientSlices)
	}
}
