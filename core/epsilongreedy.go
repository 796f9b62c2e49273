package core

import "fmt"

// EpsilonGreedyBidder explores with probability epsilon and otherwise bids
// high only on users whose estimated profit is the best seen so far.
type EpsilonGreedyBidder struct {
	account
	stats   userStats
	rs      RandSource
	epsilon float64

	currentUser UserID
}

// NewEpsilonGreedyBidder returns an error unless 0 < epsilon < 1.
func NewEpsilonGreedyBidder(name string, users, rounds int, epsilon float64, rs RandSource) (*EpsilonGreedyBidder, error) {
	if !(epsilon > 0 && epsilon < 1) {
		return nil, fmt.Errorf("epsilon %v: %w", epsilon, ErrInvalidEpsilon)
	}
	return &EpsilonGreedyBidder{
		account: newAccount(name, rounds),
		stats:   newUserStats(users),
		rs:      rs,
		epsilon: epsilon,
	}, nil
}

func (b *EpsilonGreedyBidder) Bid(user UserID) float64 {
	b.stats.checkUser(user)
	b.currentUser = user

	if b.rs.Float64() < b.epsilon {
		return UniformBid(b.rs, 0, 1)
	}
	if b.stats.estimatedProb[user] == b.stats.maxEstimate() {
		return FavouriteBid
	}
	return UniformBid(b.rs, 0, FavouriteBid)
}

func (b *EpsilonGreedyBidder) Notify(n Notification) {
	payoff := b.settle(n)
	if n.IsWinner {
		b.stats.record(b.currentUser, payoff)
	}
}

func (b *EpsilonGreedyBidder) Epsilon() float64 { return b.epsilon }

func (b *EpsilonGreedyBidder) PopulationSize() int { return b.stats.users }

// TimesWon reports how many impressions of user the bidder has won.
func (b *EpsilonGreedyBidder) TimesWon(user UserID) int { return b.stats.timesWon[user] }

// EstimatedProfit is the mean payoff per won impression of user.
func (b *EpsilonGreedyBidder) EstimatedProfit(user UserID) float64 {
	return b.stats.estimatedProb[user]
}
