package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrReportInvalid is returned by the validate command when a report does
// not match its replay.
var ErrReportInvalid = errors.New("report failed replay validation")

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "adauction",
		Short:         "Repeated second-price ad auction simulator",
		Long:          "adauction runs a seeded, repeated second-price auction between learning bidders, writes a reproducible run report, and validates reports by replaying them.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
	)

	return rootCmd
}
