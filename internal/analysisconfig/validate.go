package analysisconfig

import "github.com/quantlab/factorlens/internal/contracts"

// Validate checks the file-level constraints, then defers the numeric rules
// to the engine's own settings validation so both entry paths agree.
func Validate(cfg *Config) error {
	if cfg.Meta.AnalysisID == "" {
		return contracts.ConfigurationError{Field: "meta.analysis_id", Message: "required"}
	}
	if cfg.Meta.Version == "" {
		return contracts.ConfigurationError{Field: "meta.version", Message: "required"}
	}
	return cfg.Settings().Validate()
}
