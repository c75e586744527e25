package engine

import (
	"fmt"

	"github.com/quantlab/factorlens/internal/contracts"
	"github.com/quantlab/factorlens/internal/quantile"
)

// Settings are the parameters of one analysis run.
type Settings struct {
	Quantiles int   `json:"quantiles"`
	Horizons  []int `json:"horizons"`

	ByGroup   bool `json:"by_group"`
	MonthlyIC bool `json:"monthly_ic"`
	Lag       int  `json:"lag"` // rank-autocorrelation lag
}

// DefaultSettings mirror the conventional tear-sheet defaults: quintiles
// over 1/5/10-period horizons.
func DefaultSettings() Settings {
	return Settings{
		Quantiles: quantile.DefaultQuantiles,
		Horizons:  []int{1, 5, 10},
		Lag:       1,
	}
}

// Validate rejects settings that make a run meaningless. These are the
// fatal configuration errors: everything else is absorbed as diagnostics.
func (s Settings) Validate() error {
	if s.Quantiles < 2 {
		return contracts.ConfigurationError{
			Field:   "quantiles",
			Message: fmt.Sprintf("must be at least 2, got %d", s.Quantiles),
		}
	}
	if len(s.Horizons) == 0 {
		return contracts.ConfigurationError{Field: "horizons", Message: "at least one horizon required"}
	}
	seen := make(map[int]bool, len(s.Horizons))
	for _, h := range s.Horizons {
		if h <= 0 {
			return contracts.ConfigurationError{
				Field:   "horizons",
				Message: fmt.Sprintf("must be positive, got %d", h),
			}
		}
		if seen[h] {
			return contracts.ConfigurationError{
				Field:   "horizons",
				Message: fmt.Sprintf("duplicate horizon %d", h),
			}
		}
		seen[h] = true
	}
	if s.Lag < 0 {
		return contracts.ConfigurationError{
			Field:   "lag",
			Message: fmt.Sprintf("must not be negative, got %d", s.Lag),
		}
	}
	return nil
}
