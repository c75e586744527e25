package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "factorlens",
	Short: "factorlens - cross-sectional factor evaluation",
	Long: `factorlens evaluates a per-asset, per-date factor score against
forward returns: quantile spreads, information coefficients, a
factor-weighted long/short series, turnover and rank persistence.

Usage:
  go run ./cmd/factorlens [command]

Examples:
  go run ./cmd/factorlens analyze --factors factors.csv --prices prices.csv
  go run ./cmd/factorlens serve`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
