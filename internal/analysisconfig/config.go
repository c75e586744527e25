package analysisconfig

import "github.com/quantlab/factorlens/internal/engine"

// Config is the full YAML description of one factor analysis.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Bucketing Bucketing `yaml:"bucketing" json:"bucketing"`
	Horizons  []int     `yaml:"horizons" json:"horizons"`
	Reporting Reporting `yaml:"reporting" json:"reporting"`
}

// Meta identifies the analysis.
type Meta struct {
	AnalysisID string `yaml:"analysis_id" json:"analysis_id"`
	Version    string `yaml:"version" json:"version"`
}

// Bucketing configures the quantile stage.
type Bucketing struct {
	Quantiles int `yaml:"quantiles" json:"quantiles"`
}

// Reporting configures the tear-sheet axes.
type Reporting struct {
	ByGroup     bool `yaml:"by_group" json:"by_group"`
	MonthlyIC   bool `yaml:"monthly_ic" json:"monthly_ic"`
	AutocorrLag int  `yaml:"autocorr_lag" json:"autocorr_lag"`
}

// Settings converts the file form into engine settings.
func (c *Config) Settings() engine.Settings {
	return engine.Settings{
		Quantiles: c.Bucketing.Quantiles,
		Horizons:  c.Horizons,
		ByGroup:   c.Reporting.ByGroup,
		MonthlyIC: c.Reporting.MonthlyIC,
		Lag:       c.Reporting.AutocorrLag,
	}
}
