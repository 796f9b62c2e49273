package validation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cloudx-io/adauction/simapi"
	"github.com/cloudx-io/adauction/simulation"
)

// ErrNilReport is returned when there is no report to validate.
var ErrNilReport = errors.New("no report to validate")

// ValidateRunReport replays a run report and verifies:
// - Transcript digest matches the replay
// - Rounds played and early stop match
// - Every bidder's final balance and balance history match
// - Wins, clicks, spend and disqualification rounds match
// - Recorded round hashes match, when the report carries a round log
//
// Returns:
//   - ReplayValidationResult with detailed results (call result.IsValid() to check overall status)
//   - error if the replay cannot be performed (e.g., nil report, invalid recorded config)
func ValidateRunReport(report *simapi.RunReport) (*ReplayValidationResult, error) {
	if report == nil {
		return nil, ErrNilReport
	}

	cfg := simulation.ConfigFromReport(report.Config)
	// The round log is only replayed when the report has one to compare.
	cfg.RecordRounds = len(report.Rounds) > 0

	runner, err := simulation.NewRunner(cfg)
	if err != nil {
		return nil, fmt.Errorf("rebuild run from report config: %w", err)
	}
	replay, err := runner.Run()
	if err != nil {
		return nil, fmt.Errorf("replay run: %w", err)
	}

	result := &ReplayValidationResult{
		BaseValidationResult: BaseValidationResult{
			ValidationDetails: []string{},
		},
		ReplayDigest: replay.TranscriptDigest,
	}

	result.DigestValid = validateDigest(report, replay, result)
	result.RoundsValid = validateRounds(report, replay, result)
	result.BalancesValid, result.HistoriesValid, result.TalliesValid = validateBidders(report, replay, result)
	result.RoundLogValid = validateRoundLog(report, replay, result)

	return result, nil
}

func validateDigest(report, replay *simapi.RunReport, result *ReplayValidationResult) bool {
	if report.TranscriptDigest == replay.TranscriptDigest {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Transcript digest validation passed: %s", replay.TranscriptDigest))
		return true
	}

	result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Transcript digest mismatch: report has %s, replay produced %s", report.TranscriptDigest, replay.TranscriptDigest))
	return false
}

func validateRounds(report, replay *simapi.RunReport, result *ReplayValidationResult) bool {
	valid := true
	if report.RoundsPlayed != replay.RoundsPlayed {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Rounds played mismatch: report has %d, replay played %d", report.RoundsPlayed, replay.RoundsPlayed))
		valid = false
	}
	if report.StoppedEarly != replay.StoppedEarly {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Early stop mismatch: report has %t, replay has %t", report.StoppedEarly, replay.StoppedEarly))
		valid = false
	}
	if valid {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Rounds validation passed: %d rounds played", replay.RoundsPlayed))
	}
	return valid
}

func validateBidders(report, replay *simapi.RunReport, result *ReplayValidationResult) (balances, histories, tallies bool) {
	balances, histories, tallies = true, true, true

	if len(report.Bidders) != len(replay.Bidders) {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bidder count mismatch: report has %d, replay has %d", len(report.Bidders), len(replay.Bidders)))
		return false, false, false
	}

	for _, want := range replay.Bidders {
		got := report.Bidder(want.Name)
		if got == nil {
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bidder %s missing from report", want.Name))
			balances, histories, tallies = false, false, false
			continue
		}

		if got.FinalBalance != want.FinalBalance {
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bidder %s balance mismatch: report has %.6f, replay has %.6f", want.Name, got.FinalBalance, want.FinalBalance))
			balances = false
		}

		switch {
		case len(got.BalanceHistory) != len(want.BalanceHistory):
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bidder %s history length mismatch: report has %d, replay has %d", want.Name, len(got.BalanceHistory), len(want.BalanceHistory)))
			histories = false
		case !slices.Equal(got.BalanceHistory, want.BalanceHistory):
			idx := firstDifference(got.BalanceHistory, want.BalanceHistory)
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bidder %s history diverges at round %d", want.Name, idx+1))
			histories = false
		}

		if got.Wins != want.Wins || got.Clicks != want.Clicks || got.Spend != want.Spend || got.DisqualifiedAtRound != want.DisqualifiedAtRound {
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bidder %s tally mismatch: report has wins=%d clicks=%d spend=%.6f disqualified=%d, replay has wins=%d clicks=%d spend=%.6f disqualified=%d",
				want.Name, got.Wins, got.Clicks, got.Spend, got.DisqualifiedAtRound, want.Wins, want.Clicks, want.Spend, want.DisqualifiedAtRound))
			tallies = false
		}
	}

	if balances && histories && tallies {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Bidder validation passed for %d bidders", len(replay.Bidders)))
	}
	return balances, histories, tallies
}

func validateRoundLog(report, replay *simapi.RunReport, result *ReplayValidationResult) bool {
	if len(report.Rounds) == 0 {
		return true
	}

	if len(report.Rounds) != len(replay.Rounds) {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Round log length mismatch: report has %d, replay has %d", len(report.Rounds), len(replay.Rounds)))
		return false
	}
	for i := range replay.Rounds {
		if report.Rounds[i].Hash != replay.Rounds[i].Hash {
			result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Round %d hash mismatch: report has %s, replay has %s", replay.Rounds[i].Round, report.Rounds[i].Hash, replay.Rounds[i].Hash))
			return false
		}
	}

	result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Round log validation passed: %d rounds", len(replay.Rounds)))
	return true
}

func firstDifference(a, b []float64) int {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return i
		}
	}
	return min(len(a), len(b))
}
