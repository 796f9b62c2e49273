package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudx-io/adauction/validation"
)

func newValidateCmd() *cobra.Command {
	var (
		reportPath string
		format     string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "validate --report <file>",
		Short: "Replay a run report and check it matches",
		Long: "validate re-runs the recorded config and seed of a report and compares the transcript digest,\n" +
			"rounds played, bidder balances, balance histories and tallies.\n\n" +
			"Exit codes: 0 validation passed, 1 validation failed, 2 invalid input or runtime error.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "" {
				if err := checkFormat(format); err != nil {
					return err
				}
			}

			data, err := os.ReadFile(reportPath)
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}
			if format == "" {
				format = formatFromPath(reportPath)
			}

			report, err := decodeReport(data, format)
			if err != nil {
				return err
			}

			result, err := validation.ValidateRunReport(report)
			if err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			if jsonOut {
				err = outputJSON(cmd.OutOrStdout(), result)
			} else {
				err = outputText(cmd.OutOrStdout(), report.RunID, result)
			}
			if err != nil {
				return err
			}

			if !result.IsValid() {
				return ErrReportInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "run report file")
	cmd.Flags().StringVar(&format, "format", "", "report format: "+formatNames+" (default: from file extension)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the validation result as JSON")
	_ = cmd.MarkFlagRequired("report")

	return cmd
}

func outputText(w io.Writer, runID string, result *validation.ReplayValidationResult) error {
	status := "✓ PASSED"
	if !result.IsValid() {
		status = "✗ FAILED"
	}

	_, err := fmt.Fprintf(w, `Run Report Replay Validator
===========================
Run: %s

Summary:
  Digest Valid:      %v
  Rounds Valid:      %v
  Balances Valid:    %v
  Histories Valid:   %v
  Tallies Valid:     %v
  Round Log Valid:   %v

Details:
`, runID, result.DigestValid, result.RoundsValid, result.BalancesValid, result.HistoriesValid, result.TalliesValid, result.RoundLogValid)
	if err != nil {
		return err
	}
	for _, detail := range result.ValidationDetails {
		if _, err := fmt.Fprintf(w, "  - %s\n", detail); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "\n===========================\nVALIDATION: %s\n", status)
	return err
}

func outputJSON(w io.Writer, result *validation.ReplayValidationResult) error {
	output := map[string]any{
		"valid":           result.IsValid(),
		"digest_valid":    result.DigestValid,
		"rounds_valid":    result.RoundsValid,
		"balances_valid":  result.BalancesValid,
		"histories_valid": result.HistoriesValid,
		"tallies_valid":   result.TalliesValid,
		"round_log_valid": result.RoundLogValid,
		"replay_digest":   result.ReplayDigest,
		"details":         result.ValidationDetails,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal validation result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
