package validation

// BaseValidationResult contains the checks shared by every report validation
type BaseValidationResult struct {
	DigestValid       bool
	RoundsValid       bool
	ValidationDetails []string
}

// ReplayValidationResult contains the results of replaying a run report
type ReplayValidationResult struct {
	BaseValidationResult
	BalancesValid  bool
	HistoriesValid bool
	TalliesValid   bool

	// RoundLogValid is only meaningful when the report carries a round log;
	// it is true when the log is absent.
	RoundLogValid bool

	// ReplayDigest is the transcript digest produced by the replay.
	ReplayDigest string
}

// IsValid returns true if all replay checks passed
func (r *ReplayValidationResult) IsValid() bool {
	return r.DigestValid && r.RoundsValid && r.BalancesValid && r.HistoriesValid && r.TalliesValid && r.RoundLogValid
}
