package core

import "errors"

// UserID identifies a user by its index in the auction's population.
type UserID int

// DefaultDisqualificationThreshold is the ledger balance below which a bidder
// is removed from the auction.
const DefaultDisqualificationThreshold = -1000.0

var (
	ErrNoUsers            = errors.New("auction requires at least one user")
	ErrNoBidders          = errors.New("auction requires at least one bidder")
	ErrNoRandSource       = errors.New("auction requires a random source")
	ErrNegativeBid        = errors.New("bid amount must be finite and non-negative")
	ErrInvalidEpsilon     = errors.New("epsilon must be in (0, 1)")
	ErrInvalidProbability = errors.New("click probability must be in [0, 1]")
	ErrDuplicateBidder    = errors.New("bidder registered more than once")
	ErrPopulationMismatch = errors.New("bidder population size does not match the auction's users")
	ErrInvalidThreshold   = errors.New("disqualification threshold must be finite")
)

// RoundStatus reports whether a call to ExecuteRound ran a round.
type RoundStatus int

const (
	// RoundExecuted means bids were collected and a winner was charged.
	RoundExecuted RoundStatus = iota
	// RoundAllDisqualified is terminal: no qualified bidders remain.
	RoundAllDisqualified
)

func (s RoundStatus) String() string {
	switch s {
	case RoundExecuted:
		return "executed"
	case RoundAllDisqualified:
		return "all bidders are disqualified"
	default:
		return "unknown"
	}
}

// Notification is the outcome of a round as seen by a single bidder.
// Clicked is nil for losing bidders.
type Notification struct {
	IsWinner bool
	Price    float64
	Clicked  *bool
}

// RoundBid is a single bidder's bid in a round.
type RoundBid struct {
	Bidder string  `json:"bidder"`
	Amount float64 `json:"amount"`
}

// RoundResult contains the complete results of one ExecuteRound call.
type RoundResult struct {
	Status RoundStatus

	// Round is the 1-based number of the executed round (0 when terminal).
	Round int

	UserID UserID

	// Bids holds every active bidder's bid in roster order.
	Bids []RoundBid

	Winner  string
	Price   float64
	Clicked bool

	// Disqualified lists bidders removed by this call's sweep.
	Disqualified []string

	// Hash chains this round onto the previous round's hash.
	Hash string
}

// WinningBid returns the winner's own bid amount.
func (r *RoundResult) WinningBid() float64 {
	for _, b := range r.Bids {
		if b.Bidder == r.Winner {
			return b.Amount
		}
	}
	return 0
}
