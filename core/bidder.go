package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bid levels shared by the learning strategies.
const (
	ExploreBid   = 1.0
	FavouriteBid = 0.99
)

// Bidder is a bidding strategy taking part in the auction.
//
// Bid and Notify must be called strictly in pairs: the auction does not pass
// the user to Notify, so a bidder applies each notification to the user of
// its preceding Bid. Bidders are not safe for concurrent or batched use.
type Bidder interface {
	// Name identifies the bidder in round results and reports. Names must be
	// unique within an auction.
	Name() string

	// Bid returns a non-negative bid for an impression shown to user.
	Bid(user UserID) float64

	// Notify reports the outcome of the round the bidder last bid in.
	Notify(n Notification)

	// Balance is the bidder's cumulative net profit.
	Balance() float64

	// BalanceHistory has one entry per round the bidder took part in.
	BalanceHistory() []float64
}

// account tracks a bidder's own view of its balance.
type account struct {
	name    string
	balance decimal.Decimal
	history []float64
}

func newAccount(name string, rounds int) account {
	return account{name: name, history: make([]float64, 0, rounds)}
}

func (a *account) Name() string { return a.name }

func (a *account) Balance() float64 {
	f, _ := a.balance.Float64()
	return f
}

// BalanceHistory returns a copy of the per-round balance trail.
func (a *account) BalanceHistory() []float64 {
	out := make([]float64, len(a.history))
	copy(out, a.history)
	return out
}

// settle applies n to the balance and returns the winner's payoff.
func (a *account) settle(n Notification) decimal.Decimal {
	payoff := decimal.Zero
	if n.IsWinner {
		payoff = Payoff(n.Clicked != nil && *n.Clicked, n.Price)
		a.balance = a.balance.Add(payoff).Round(ledgerPrecision)
	}
	a.history = append(a.history, a.Balance())
	return payoff
}

// userStats holds per-user outcomes of won impressions.
type userStats struct {
	users         int
	timesWon      map[UserID]int
	profit        map[UserID]decimal.Decimal
	estimatedProb map[UserID]float64
}

func newUserStats(users int) userStats {
	s := userStats{
		users:         users,
		timesWon:      make(map[UserID]int, users),
		profit:        make(map[UserID]decimal.Decimal, users),
		estimatedProb: make(map[UserID]float64, users),
	}
	for u := range users {
		id := UserID(u)
		s.timesWon[id] = 0
		s.profit[id] = decimal.Zero
		s.estimatedProb[id] = 0
	}
	return s
}

// record adds a won impression for user and refreshes its estimate.
func (s *userStats) record(user UserID, payoff decimal.Decimal) {
	s.timesWon[user]++
	s.profit[user] = s.profit[user].Add(payoff)
	n := s.timesWon[user]
	if n < 1 {
		panic(fmt.Sprintf("userStats.record: user %d has %d wins after a win", user, n))
	}
	s.estimatedProb[user], _ = s.profit[user].Div(decimal.NewFromInt(int64(n))).Float64()
}

// maxEstimate returns the highest estimated profit across all users.
func (s *userStats) maxEstimate() float64 {
	best := 0.0
	first := true
	for _, p := range s.estimatedProb {
		if first || p > best {
			best = p
			first = false
		}
	}
	return best
}

func (s *userStats) checkUser(user UserID) {
	if _, ok := s.timesWon[user]; !ok {
		panic(fmt.Sprintf("bidder has no statistics for user %d", user))
	}
}
