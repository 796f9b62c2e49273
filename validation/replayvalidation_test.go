package validation

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cloudx-io/adauction/simapi"
	"github.com/cloudx-io/adauction/simulation"
)

func runReport(t *testing.T, recordRounds bool) *simapi.RunReport {
	t.Helper()
	cfg := simulation.DefaultConfig()
	cfg.Users = 8
	cfg.Rounds = 120
	cfg.Seed = 77
	cfg.Epsilons = []float64{0.3}
	cfg.RecordRounds = recordRounds
	cfg.ProgressInterval = 0

	report, err := simulation.Run(cfg)
	assert.NoError(t, err)
	return report
}

func TestValidateRunReport_Valid(t *testing.T) {
	report := runReport(t, true)

	result, err := ValidateRunReport(report)
	assert.NoError(t, err)

	check.True(t, result.IsValid())
	check.True(t, result.DigestValid)
	check.True(t, result.RoundsValid)
	check.True(t, result.BalancesValid)
	check.True(t, result.HistoriesValid)
	check.True(t, result.TalliesValid)
	check.True(t, result.RoundLogValid)
	check.Equal(t, report.TranscriptDigest, result.ReplayDigest)
	check.True(t, len(result.ValidationDetails) > 0)
}

func TestValidateRunReport_AfterCodecRoundTrip(t *testing.T) {
	original := runReport(t, false)

	for _, f := range simapi.Formats {
		t.Run(string(f), func(t *testing.T) {
			data, err := simapi.Encode(original, f)
			assert.NoError(t, err)
			decoded, err := simapi.Decode(data, f)
			assert.NoError(t, err)

			result, err := ValidateRunReport(decoded)
			assert.NoError(t, err)
			check.True(t, result.IsValid())
		})
	}
}

func TestValidateRunReport_Tampered(t *testing.T) {
	tests := []struct {
		name    string
		tamper  func(r *simapi.RunReport)
		checkFn func(t *testing.T, r *ReplayValidationResult)
	}{
		{
			name:   "digest",
			tamper: func(r *simapi.RunReport) { r.TranscriptDigest = "tampered" },
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.False(t, r.DigestValid)
				check.True(t, r.BalancesValid)
			},
		},
		{
			name:   "final balance",
			tamper: func(r *simapi.RunReport) { r.Bidders[0].FinalBalance += 1 },
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.True(t, r.DigestValid)
				check.False(t, r.BalancesValid)
			},
		},
		{
			name: "history value",
			tamper: func(r *simapi.RunReport) {
				r.Bidders[1].BalanceHistory[10] -= 0.5
			},
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.False(t, r.HistoriesValid)
				check.True(t, r.BalancesValid)
			},
		},
		{
			name: "history length",
			tamper: func(r *simapi.RunReport) {
				h := r.Bidders[1].BalanceHistory
				r.Bidders[1].BalanceHistory = h[:len(h)-1]
			},
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.False(t, r.HistoriesValid)
			},
		},
		{
			name:   "wins",
			tamper: func(r *simapi.RunReport) { r.Bidders[2].Wins++ },
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.False(t, r.TalliesValid)
			},
		},
		{
			name:   "rounds played",
			tamper: func(r *simapi.RunReport) { r.RoundsPlayed-- },
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.False(t, r.RoundsValid)
			},
		},
		{
			name:   "round hash",
			tamper: func(r *simapi.RunReport) { r.Rounds[5].Hash = r.Rounds[6].Hash },
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.False(t, r.RoundLogValid)
				check.True(t, r.DigestValid)
			},
		},
		{
			name:   "renamed bidder",
			tamper: func(r *simapi.RunReport) { r.Bidders[0].Name = "impostor" },
			checkFn: func(t *testing.T, r *ReplayValidationResult) {
				check.False(t, r.BalancesValid)
				check.False(t, r.HistoriesValid)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := runReport(t, true)
			tt.tamper(report)

			result, err := ValidateRunReport(report)
			assert.NoError(t, err)
			check.False(t, result.IsValid())
			tt.checkFn(t, result)
		})
	}
}

func TestValidateRunReport_DifferentSeed(t *testing.T) {
	report := runReport(t, false)
	report.Config.Seed++

	result, err := ValidateRunReport(report)
	assert.NoError(t, err)
	check.False(t, result.IsValid())
	check.False(t, result.DigestValid)
}

func TestValidateRunReport_Errors(t *testing.T) {
	_, err := ValidateRunReport(nil)
	check.True(t, errors.Is(err, ErrNilReport))

	report := runReport(t, false)
	report.Config.Users = 0
	_, err = ValidateRunReport(report)
	check.Error(t, err)
}
