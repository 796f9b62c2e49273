package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudx-io/adauction/simulation"
)

func newRunCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a seeded auction simulation and write its report",
		Long: "run plays up to --rounds rounds between the selected bidders and writes the run report.\n" +
			"Settings are resolved from flags, then ADAUCTION_* environment variables, then the --config file, then defaults.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			v := viper.New()
			if err := bindRunFlags(cmd, v); err != nil {
				return err
			}

			cfg, err := simulation.LoadConfig(v)
			if err != nil {
				return err
			}

			report, err := simulation.Run(cfg)
			if err != nil {
				return err
			}

			data, err := encodeReport(report, format)
			if err != nil {
				return err
			}
			if err := writeOutput(output, data, func(b []byte) error {
				_, err := cmd.OutOrStdout().Write(b)
				return err
			}); err != nil {
				return err
			}
			if output != "" {
				log.Printf("INFO: Wrote %s report %s to %s", format, report.RunID, output)
			}
			return nil
		},
	}

	d := simulation.DefaultConfig()
	flags := cmd.Flags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.Int("users", d.Users, "number of users in the population")
	flags.Int("rounds", d.Rounds, "maximum number of rounds")
	flags.Uint64("seed", d.Seed, "seed for the random source")
	flags.Float64Slice("epsilon", d.Epsilons, "epsilon-greedy bidders to include, one per value")
	flags.Bool("no-random", false, "do not include the random bidder")
	flags.Bool("no-ucb", false, "do not include the UCB bidder")
	flags.Bool("no-epsilon", false, "do not include any epsilon-greedy bidder")
	flags.Float64Slice("fixed-bid", nil, "fixed bidders to include, one per bid amount")
	flags.Float64("threshold", d.DisqualificationThreshold, "balance below which a bidder is disqualified")
	flags.Bool("record-rounds", false, "include every round in the report")
	flags.Int("progress-interval", d.ProgressInterval, "rounds between progress log lines, 0 to disable")
	flags.StringVar(&format, "format", "json", "report format: "+formatNames)
	flags.StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")

	return cmd
}

// bindRunFlags registers the scalar flags with v and sets slice and negated
// flags explicitly when they were given.
func bindRunFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	scalar := map[string]string{
		simulation.KeyConfigFile:       "config",
		simulation.KeyUsers:            "users",
		simulation.KeyRounds:           "rounds",
		simulation.KeySeed:             "seed",
		simulation.KeyThreshold:        "threshold",
		simulation.KeyRecordRounds:     "record-rounds",
		simulation.KeyProgressInterval: "progress-interval",
	}
	for key, name := range scalar {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}

	if flags.Changed("epsilon") {
		eps, err := flags.GetFloat64Slice("epsilon")
		if err != nil {
			return err
		}
		v.Set(simulation.KeyEpsilons, eps)
	}
	if flags.Changed("fixed-bid") {
		bids, err := flags.GetFloat64Slice("fixed-bid")
		if err != nil {
			return err
		}
		v.Set(simulation.KeyFixedBids, bids)
	}
	if noRandom, _ := flags.GetBool("no-random"); noRandom {
		v.Set(simulation.KeyIncludeRandom, false)
	}
	if noUCB, _ := flags.GetBool("no-ucb"); noUCB {
		v.Set(simulation.KeyIncludeUCB, false)
	}
	if noEpsilon, _ := flags.GetBool("no-epsilon"); noEpsilon {
		v.Set(simulation.KeyEpsilons, []float64{})
	}
	return nil
}
