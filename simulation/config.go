package simulation

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/cloudx-io/adauction/core"
	"github.com/cloudx-io/adauction/simapi"
)

// Configuration keys. Every key can be set in a config file or through an
// ADAUCTION_-prefixed environment variable, e.g. ADAUCTION_ROUNDS=500.
const (
	EnvPrefix = "ADAUCTION"

	KeyConfigFile       = "config"
	KeyUsers            = "users"
	KeyRounds           = "rounds"
	KeySeed             = "seed"
	KeyEpsilons         = "epsilons"
	KeyIncludeRandom    = "include_random"
	KeyIncludeUCB       = "include_ucb"
	KeyFixedBids        = "fixed_bids"
	KeyThreshold        = "disqualification_threshold"
	KeyRecordRounds     = "record_rounds"
	KeyProgressInterval = "progress_interval"
)

// Config holds the parameters of a simulation run.
type Config struct {
	Users                     int       `mapstructure:"users"`
	Rounds                    int       `mapstructure:"rounds"`
	Seed                      uint64    `mapstructure:"seed"`
	Epsilons                  []float64 `mapstructure:"epsilons"`
	IncludeRandom             bool      `mapstructure:"include_random"`
	IncludeUCB                bool      `mapstructure:"include_ucb"`
	FixedBids                 []float64 `mapstructure:"fixed_bids"`
	DisqualificationThreshold float64   `mapstructure:"disqualification_threshold"`
	RecordRounds              bool      `mapstructure:"record_rounds"`

	// ProgressInterval is the number of rounds between progress log lines;
	// 0 disables progress logging.
	ProgressInterval int `mapstructure:"progress_interval"`
}

// DefaultConfig returns a population of 100 users over 10000 rounds with a
// random bidder, a UCB bidder and epsilon-greedy bidders for epsilon
// 0.1 through 0.9.
func DefaultConfig() Config {
	return Config{
		Users:                     100,
		Rounds:                    10000,
		Seed:                      1,
		Epsilons:                  []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9},
		IncludeRandom:             true,
		IncludeUCB:                true,
		DisqualificationThreshold: core.DefaultDisqualificationThreshold,
		ProgressInterval:          1000,
	}
}

// Validate checks the configuration before any state is built.
func (c Config) Validate() error {
	var errs []error

	if c.Users < 1 {
		errs = append(errs, fmt.Errorf("users=%d: %w", c.Users, core.ErrNoUsers))
	}
	if c.Rounds < 1 {
		errs = append(errs, fmt.Errorf("rounds must be positive, got %d", c.Rounds))
	}
	if math.IsNaN(c.DisqualificationThreshold) || math.IsInf(c.DisqualificationThreshold, 0) {
		errs = append(errs, fmt.Errorf("threshold %v: %w", c.DisqualificationThreshold, core.ErrInvalidThreshold))
	}
	if c.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("progress interval must be non-negative, got %d", c.ProgressInterval))
	}
	if !c.IncludeRandom && !c.IncludeUCB && len(c.Epsilons) == 0 && len(c.FixedBids) == 0 {
		errs = append(errs, fmt.Errorf("no bidding strategies selected: %w", core.ErrNoBidders))
	}

	seen := make(map[float64]bool, len(c.Epsilons))
	for _, eps := range c.Epsilons {
		if !(eps > 0 && eps < 1) {
			errs = append(errs, fmt.Errorf("epsilon %v: %w", eps, core.ErrInvalidEpsilon))
		}
		if seen[eps] {
			errs = append(errs, fmt.Errorf("epsilon %v listed twice: %w", eps, core.ErrDuplicateBidder))
		}
		seen[eps] = true
	}

	seenFixed := make(map[float64]bool, len(c.FixedBids))
	for _, bid := range c.FixedBids {
		if !core.ValidBid(bid) {
			errs = append(errs, fmt.Errorf("fixed bid %v: %w", bid, core.ErrNegativeBid))
		}
		if seenFixed[bid] {
			errs = append(errs, fmt.Errorf("fixed bid %v listed twice: %w", bid, core.ErrDuplicateBidder))
		}
		seenFixed[bid] = true
	}

	return errors.Join(errs...)
}

// SetDefaults registers DefaultConfig values on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeyUsers, d.Users)
	v.SetDefault(KeyRounds, d.Rounds)
	v.SetDefault(KeySeed, d.Seed)
	v.SetDefault(KeyEpsilons, d.Epsilons)
	v.SetDefault(KeyIncludeRandom, d.IncludeRandom)
	v.SetDefault(KeyIncludeUCB, d.IncludeUCB)
	v.SetDefault(KeyFixedBids, []float64{})
	v.SetDefault(KeyThreshold, d.DisqualificationThreshold)
	v.SetDefault(KeyRecordRounds, d.RecordRounds)
	v.SetDefault(KeyProgressInterval, d.ProgressInterval)
}

// LoadConfig resolves a Config from v: explicit values (flags), then the
// environment, then the optional config file named by the "config" key,
// then DefaultConfig.
func LoadConfig(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
		log.Printf("INFO: Using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.FixedBids) == 0 {
		cfg.FixedBids = nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReportConfig converts c into the form recorded in run reports.
func (c Config) ReportConfig() simapi.ReportConfig {
	return simapi.ReportConfig{
		Users:                     c.Users,
		Rounds:                    c.Rounds,
		Seed:                      c.Seed,
		Epsilons:                  c.Epsilons,
		IncludeRandom:             c.IncludeRandom,
		IncludeUCB:                c.IncludeUCB,
		FixedBids:                 c.FixedBids,
		DisqualificationThreshold: c.DisqualificationThreshold,
		RecordRounds:              c.RecordRounds,
	}
}

// ConfigFromReport rebuilds the Config a report was produced with.
func ConfigFromReport(rc simapi.ReportConfig) Config {
	return Config{
		Users:                     rc.Users,
		Rounds:                    rc.Rounds,
		Seed:                      rc.Seed,
		Epsilons:                  rc.Epsilons,
		IncludeRandom:             rc.IncludeRandom,
		IncludeUCB:                rc.IncludeUCB,
		FixedBids:                 rc.FixedBids,
		DisqualificationThreshold: rc.DisqualificationThreshold,
		RecordRounds:              rc.RecordRounds,
	}
}
