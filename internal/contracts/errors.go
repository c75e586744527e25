package contracts

import (
	"fmt"
	"time"
)

// ConfigurationError is the only fatal error class: an invalid analysis
// setting or an input combination that makes the whole run meaningless.
// It halts the run before any stage executes.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InsufficientPopulationError reports a date whose cross-section was too
// small for a computation that must fail explicitly rather than emit a
// marker (the factor-weighted long/short portfolio).
type InsufficientPopulationError struct {
	Date time.Time
	What string
	Need int
	Got  int
}

func (e InsufficientPopulationError) Error() string {
	return fmt.Sprintf("%s on %s: need %d, got %d",
		e.What, e.Date.Format("2006-01-02"), e.Need, e.Got)
}
