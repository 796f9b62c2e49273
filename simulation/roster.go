package simulation

import (
	"fmt"
	"strconv"

	"github.com/cloudx-io/adauction/core"
)

// Strategy names used in reports.
const (
	StrategyRandom        = "random"
	StrategyUCB           = "ucb"
	StrategyFixed         = "fixed"
	StrategyEpsilonGreedy = "epsilon-greedy"
)

// BuildPopulation creates n users with click probabilities drawn from rs.
func BuildPopulation(n int, rs core.RandSource) []*core.User {
	users := make([]*core.User, n)
	for i := range users {
		users[i] = core.NewUser(rs)
	}
	return users
}

// BuildRoster creates the bidders selected by cfg in roster order: random,
// UCB, fixed bidders, then epsilon-greedy bidders in the order configured.
func BuildRoster(cfg Config, rs core.RandSource) ([]core.Bidder, error) {
	var roster []core.Bidder

	if cfg.IncludeRandom {
		roster = append(roster, core.NewRandomBidder(StrategyRandom, cfg.Rounds, rs))
	}
	if cfg.IncludeUCB {
		roster = append(roster, core.NewUCBBidder(StrategyUCB, cfg.Users, cfg.Rounds, rs))
	}
	for _, amount := range cfg.FixedBids {
		b, err := core.NewFixedBidder(bidderName(StrategyFixed, amount), amount, cfg.Rounds)
		if err != nil {
			return nil, err
		}
		roster = append(roster, b)
	}
	for _, eps := range cfg.Epsilons {
		b, err := core.NewEpsilonGreedyBidder(bidderName("epsilon", eps), cfg.Users, cfg.Rounds, eps, rs)
		if err != nil {
			return nil, err
		}
		roster = append(roster, b)
	}

	if len(roster) == 0 {
		return nil, core.ErrNoBidders
	}
	return roster, nil
}

func bidderName(prefix string, param float64) string {
	return fmt.Sprintf("%s-%s", prefix, strconv.FormatFloat(param, 'f', -1, 64))
}

// StrategyOf returns the strategy name of a bidder built by BuildRoster.
func StrategyOf(b core.Bidder) string {
	switch b.(type) {
	case *core.RandomBidder:
		return StrategyRandom
	case *core.UCBBidder:
		return StrategyUCB
	case *core.FixedBidder:
		return StrategyFixed
	case *core.EpsilonGreedyBidder:
		return StrategyEpsilonGreedy
	default:
		return "custom"
	}
}
