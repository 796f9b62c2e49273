package core

import (
	"fmt"
	"math"
)

// UCBExplorationWins is the number of wins per user during which the UCB
// bidder keeps bidding ExploreBid.
const UCBExplorationWins = 10

// UCBBidder estimates each user's profitability from won impressions and
// concentrates on the user with the highest UCB1 score.
type UCBBidder struct {
	account
	stats userStats
	rs    RandSource

	users     int
	ucbScore  map[UserID]float64
	totalWins int

	currentUser UserID
}

// NewUCBBidder creates a UCB bidder for a population of users.
func NewUCBBidder(name string, users, rounds int, rs RandSource) *UCBBidder {
	b := &UCBBidder{
		account:  newAccount(name, rounds),
		stats:    newUserStats(users),
		rs:       rs,
		users:    users,
		ucbScore: make(map[UserID]float64, users),
	}
	for u := range users {
		b.ucbScore[UserID(u)] = 0
	}
	return b
}

func (b *UCBBidder) Bid(user UserID) float64 {
	b.stats.checkUser(user)
	b.currentUser = user

	if b.stats.timesWon[user] < UCBExplorationWins {
		return ExploreBid
	}
	if b.favourite() == user {
		return FavouriteBid
	}

	estimate := b.stats.estimatedProb[user]
	if estimate <= 0 {
		return 0
	}
	return UniformBid(b.rs, 0, estimate)
}

func (b *UCBBidder) Notify(n Notification) {
	payoff := b.settle(n)
	if !n.IsWinner {
		return
	}

	user := b.currentUser
	b.stats.record(user, payoff)
	b.totalWins++

	won := b.stats.timesWon[user]
	if won < 1 || b.totalWins < 1 {
		panic(fmt.Sprintf("UCBBidder.Notify: invalid counters wins=%d total=%d", won, b.totalWins))
	}
	bonus := math.Sqrt(2 * math.Log(float64(b.totalWins)) / float64(won))
	b.ucbScore[user] = b.stats.estimatedProb[user] + bonus
}

// favourite returns the user with the maximum UCB score, lowest id on ties.
func (b *UCBBidder) favourite() UserID {
	best := UserID(0)
	for u := 1; u < b.users; u++ {
		if b.ucbScore[UserID(u)] > b.ucbScore[best] {
			best = UserID(u)
		}
	}
	return best
}

// PopulationSize is the number of users the bidder keeps statistics for.
func (b *UCBBidder) PopulationSize() int { return b.users }

// TimesWon reports how many impressions of user the bidder has won.
func (b *UCBBidder) TimesWon(user UserID) int { return b.stats.timesWon[user] }

// EstimatedProfit is the mean payoff per won impression of user.
func (b *UCBBidder) EstimatedProfit(user UserID) float64 { return b.stats.estimatedProb[user] }

// Score is the current UCB1 score of user.
func (b *UCBBidder) Score(user UserID) float64 { return b.ucbScore[user] }

// TotalWins is the number of rounds won across all users.
func (b *UCBBidder) TotalWins() int { return b.totalWins }
