package simulation

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cloudx-io/adauction/core"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Users = 10
	cfg.Rounds = 300
	cfg.Seed = 2024
	cfg.Epsilons = []float64{0.1, 0.5}
	cfg.ProgressInterval = 100
	return cfg
}

func TestBuildRoster_Order(t *testing.T) {
	cfg := smallConfig()
	cfg.FixedBids = []float64{0.25}

	roster, err := BuildRoster(cfg, core.NewSeededRandSource(1))
	assert.NoError(t, err)

	names := make([]string, len(roster))
	strategies := make([]string, len(roster))
	for i, b := range roster {
		names[i] = b.Name()
		strategies[i] = StrategyOf(b)
	}
	check.Equal(t, []string{"random", "ucb", "fixed-0.25", "epsilon-0.1", "epsilon-0.5"}, names)
	check.Equal(t, []string{StrategyRandom, StrategyUCB, StrategyFixed, StrategyEpsilonGreedy, StrategyEpsilonGreedy}, strategies)
}

func TestBuildRoster_Empty(t *testing.T) {
	cfg := Config{Users: 1, Rounds: 1}
	_, err := BuildRoster(cfg, core.NewSeededRandSource(1))
	check.True(t, errors.Is(err, core.ErrNoBidders))
}

func TestBuildPopulation(t *testing.T) {
	users := BuildPopulation(50, core.NewSeededRandSource(3))
	check.Equal(t, 50, len(users))
	for _, u := range users {
		p := u.ClickProbability()
		check.True(t, p >= 0 && p < 1)
	}
}

func TestRunner_Run(t *testing.T) {
	cfg := smallConfig()
	cfg.RecordRounds = true

	report, err := Run(cfg)
	assert.NoError(t, err)

	check.Equal(t, cfg.Rounds, report.RoundsPlayed)
	check.False(t, report.StoppedEarly)
	check.Equal(t, 64, len(report.TranscriptDigest))
	check.Equal(t, 36, len(report.RunID))
	check.Equal(t, 4, len(report.Bidders))
	check.Equal(t, cfg.Rounds, len(report.Rounds))
	check.Equal(t, report.TranscriptDigest, report.Rounds[len(report.Rounds)-1].Hash)

	totalWins := 0
	for _, b := range report.Bidders {
		// Every bidder stayed qualified and was notified every round
		check.Equal(t, cfg.Rounds, len(b.BalanceHistory))
		check.Equal(t, b.FinalBalance, b.BalanceHistory[len(b.BalanceHistory)-1])
		check.Equal(t, 0, b.DisqualifiedAtRound)
		check.True(t, b.Clicks <= b.Wins)
		totalWins += b.Wins
	}
	check.Equal(t, cfg.Rounds, totalWins)

	for _, round := range report.Rounds {
		var winning float64
		for _, bid := range round.Bids {
			if bid.Bidder == round.Winner {
				winning = bid.Amount
			}
		}
		check.True(t, round.Price <= winning)
	}
}

func TestRunner_Reproducible(t *testing.T) {
	cfg := smallConfig()

	first, err := Run(cfg)
	assert.NoError(t, err)
	second, err := Run(cfg)
	assert.NoError(t, err)

	check.Equal(t, first.TranscriptDigest, second.TranscriptDigest)
	check.NotEqual(t, first.RunID, second.RunID)
	for i := range first.Bidders {
		check.Equal(t, first.Bidders[i].BalanceHistory, second.Bidders[i].BalanceHistory)
	}

	cfg.Seed++
	third, err := Run(cfg)
	assert.NoError(t, err)
	check.NotEqual(t, first.TranscriptDigest, third.TranscriptDigest)
}

func TestRunner_StopsWhenAllDisqualified(t *testing.T) {
	cfg := Config{
		Users:                     3,
		Rounds:                    100,
		Seed:                      8,
		FixedBids:                 []float64{5},
		DisqualificationThreshold: -10,
	}

	report, err := Run(cfg)
	assert.NoError(t, err)

	// Each round costs between 4 and 5, so the balance first drops below
	// -10 after the third round.
	check.True(t, report.StoppedEarly)
	check.Equal(t, 3, report.RoundsPlayed)

	b := report.Bidder("fixed-5")
	assert.NotNil(t, b)
	check.Equal(t, 4, b.DisqualifiedAtRound)
	check.Equal(t, 3, len(b.BalanceHistory))
	check.Equal(t, 3, b.Wins)
	check.Equal(t, 15.0, b.Spend)
}

func TestRunner_PartialDisqualification(t *testing.T) {
	cfg := Config{
		Users:                     5,
		Rounds:                    8,
		Seed:                      4,
		IncludeRandom:             true,
		FixedBids:                 []float64{2, 3},
		DisqualificationThreshold: -5,
	}

	report, err := Run(cfg)
	assert.NoError(t, err)
	check.False(t, report.StoppedEarly)
	check.Equal(t, 8, report.RoundsPlayed)

	// fixed-3 wins at price 2 until its sweep between rounds 4 and 7, then
	// fixed-2 wins at the random bidder's price, losing at most 1 per round.
	big := report.Bidder("fixed-3")
	assert.NotNil(t, big)
	check.True(t, big.DisqualifiedAtRound > 0)
	check.Equal(t, big.DisqualifiedAtRound-1, len(big.BalanceHistory))

	random := report.Bidder("random")
	assert.NotNil(t, random)
	check.Equal(t, 8, len(random.BalanceHistory))
	check.Equal(t, 0, random.Wins)

	small := report.Bidder("fixed-2")
	assert.NotNil(t, small)
	check.Equal(t, 0, small.DisqualifiedAtRound)
	check.Equal(t, 8-len(big.BalanceHistory), small.Wins)
}

func TestNewRunner_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Users = 0

	_, err := NewRunner(cfg)
	check.True(t, errors.Is(err, core.ErrNoUsers))
}
