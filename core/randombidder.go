package core

import "fmt"

// RandomBidder bids uniformly at random regardless of the user.
type RandomBidder struct {
	account
	rs RandSource

	// LastWinningPrice is the price observed in the last lost round.
	LastWinningPrice float64
}

// NewRandomBidder creates a RandomBidder. rounds is a capacity hint for the
// balance history.
func NewRandomBidder(name string, rounds int, rs RandSource) *RandomBidder {
	return &RandomBidder{account: newAccount(name, rounds), rs: rs}
}

func (b *RandomBidder) Bid(UserID) float64 {
	return UniformBid(b.rs, 0, 1)
}

func (b *RandomBidder) Notify(n Notification) {
	if !n.IsWinner {
		b.LastWinningPrice = n.Price
	}
	b.settle(n)
}

// FixedBidder always bids the same amount.
type FixedBidder struct {
	account
	amount float64
}

func NewFixedBidder(name string, amount float64, rounds int) (*FixedBidder, error) {
	if !ValidBid(amount) {
		return nil, fmt.Errorf("fixed bid %v: %w", amount, ErrNegativeBid)
	}
	return &FixedBidder{account: newAccount(name, rounds), amount: amount}, nil
}

func (b *FixedBidder) Bid(UserID) float64 {
	return b.amount
}

func (b *FixedBidder) Notify(n Notification) {
	b.settle(n)
}
