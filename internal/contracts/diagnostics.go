package contracts

// Diagnostics summarizes every non-fatal data issue absorbed during a run.
// A completed run always returns one of these alongside its results; only
// configuration problems abort a run outright.
type Diagnostics struct {
	InputObservations int `json:"input_observations"`
	AlignedRecords    int `json:"aligned_records"`

	// Alignment stage
	DroppedNoForward   int         `json:"dropped_no_forward"`   // records with no resolvable return on any horizon
	UndefinedCells     map[int]int `json:"undefined_cells"`      // horizon -> undefined forward-return count
	AssetsWithoutPrice int         `json:"assets_without_price"` // scored assets with no price history at all
	MaxMissingFraction float64     `json:"max_missing_fraction"` // worst per-date fraction of unpriceable observations

	// Bucketing stage
	SkippedDates int `json:"skipped_dates"` // dates with fewer distinct scores than quantile groups

	// Metrics stage
	InsufficientSlices int `json:"insufficient_slices"` // statistic slices emitted as insufficient-data markers
}

// NewDiagnostics returns an empty diagnostics summary.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{UndefinedCells: make(map[int]int)}
}

// Clean reports whether the run saw no data issues at all.
func (d *Diagnostics) Clean() bool {
	return d.DroppedNoForward == 0 &&
		d.AssetsWithoutPrice == 0 &&
		d.SkippedDates == 0 &&
		d.InsufficientSlices == 0
}
