package core

import (
	"fmt"
	"math"
	"slices"
)

// PopulationSizer is implemented by bidders that keep per-user state for a
// fixed population. NewAuction rejects them unless the size matches.
type PopulationSizer interface {
	PopulationSize() int
}

// Auction runs repeated second-price sealed-bid rounds over a fixed user
// population. The auction owns the authoritative balance ledger used for
// disqualification; bidders never read or write it.
type Auction struct {
	users     []*User
	active    []Bidder
	balances  map[Bidder]float64
	rs        RandSource
	threshold float64

	round    int
	lastHash string
	err      error
}

// AuctionOption configures an Auction.
type AuctionOption func(*Auction)

// WithDisqualificationThreshold overrides DefaultDisqualificationThreshold.
func WithDisqualificationThreshold(threshold float64) AuctionOption {
	return func(a *Auction) {
		a.threshold = threshold
	}
}

// NewAuction creates an auction over users and bidders. The bidder slice is
// copied; the roster order is the order bids are collected in.
func NewAuction(users []*User, bidders []Bidder, rs RandSource, opts ...AuctionOption) (*Auction, error) {
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	if len(bidders) == 0 {
		return nil, ErrNoBidders
	}
	if rs == nil {
		return nil, ErrNoRandSource
	}

	a := &Auction{
		users:     users,
		active:    slices.Clone(bidders),
		balances:  make(map[Bidder]float64, len(bidders)),
		rs:        rs,
		threshold: DefaultDisqualificationThreshold,
		lastHash:  GenesisHash,
	}
	for _, opt := range opts {
		opt(a)
	}
	if math.IsNaN(a.threshold) || math.IsInf(a.threshold, 0) {
		return nil, fmt.Errorf("threshold %v: %w", a.threshold, ErrInvalidThreshold)
	}

	names := make(map[string]bool, len(bidders))
	for _, b := range a.active {
		if b == nil {
			return nil, fmt.Errorf("nil bidder: %w", ErrNoBidders)
		}
		if names[b.Name()] {
			return nil, fmt.Errorf("bidder %q: %w", b.Name(), ErrDuplicateBidder)
		}
		if ps, ok := b.(PopulationSizer); ok && ps.PopulationSize() != len(users) {
			return nil, fmt.Errorf("bidder %q sized for %d users, auction has %d: %w",
				b.Name(), ps.PopulationSize(), len(users), ErrPopulationMismatch)
		}
		names[b.Name()] = true
		a.balances[b] = 0
	}

	return a, nil
}

// ExecuteRound runs a single auction round.
//
// Processing flow:
//  1. Remove bidders whose ledger balance is below the threshold
//  2. Select a user uniformly at random
//  3. Collect a bid from every active bidder in roster order
//  4. Pick the highest bid, breaking ties uniformly at random
//  5. Charge the highest bid outside the winner's slot (second price)
//  6. Show the ad to the user
//  7. Notify the winner with the click outcome and the losers without it
//  8. Settle the winner's ledger balance
//
// When no qualified bidders remain the result has Status RoundAllDisqualified
// and the auction state is left untouched. A non-nil error means a bidder
// broke the bidding contract; the auction refuses further rounds.
func (a *Auction) ExecuteRound() (*RoundResult, error) {
	if a.err != nil {
		return nil, a.err
	}

	// Step 1: Disqualification sweep
	disqualified := a.sweep()
	if len(a.active) == 0 {
		return &RoundResult{Status: RoundAllDisqualified, Disqualified: disqualified}, nil
	}

	// Step 2: User selection
	userID := UserID(a.rs.Intn(len(a.users)))

	// Step 3: Bid collection
	amounts := make([]float64, len(a.active))
	bids := make([]RoundBid, len(a.active))
	for i, b := range a.active {
		amount := b.Bid(userID)
		if !ValidBid(amount) {
			a.err = fmt.Errorf("round %d: bidder %q bid %v: %w", a.round+1, b.Name(), amount, ErrNegativeBid)
			return nil, a.err
		}
		amounts[i] = amount
		bids[i] = RoundBid{Bidder: b.Name(), Amount: amount}
	}

	// Steps 4-5: Winner and second price
	ranking, err := RankRoundBids(amounts, a.rs)
	if err != nil {
		a.err = fmt.Errorf("round %d: %w", a.round+1, err)
		return nil, a.err
	}
	winner := a.active[ranking.WinnerIndex]
	price := ranking.Price

	// Step 6: Ad outcome
	clicked := a.users[userID].ShowAd(a.rs)

	// Step 7: Notification
	for i, b := range a.active {
		if i == ranking.WinnerIndex {
			b.Notify(Notification{IsWinner: true, Price: price, Clicked: &clicked})
		} else {
			b.Notify(Notification{IsWinner: false, Price: price})
		}
	}

	// Step 8: Ledger update
	a.balances[winner] = Settle(a.balances[winner], clicked, price)

	a.round++
	result := &RoundResult{
		Status:       RoundExecuted,
		Round:        a.round,
		UserID:       userID,
		Bids:         bids,
		Winner:       winner.Name(),
		Price:        price,
		Clicked:      clicked,
		Disqualified: disqualified,
	}
	result.Hash = ComputeRoundHash(a.lastHash, result)
	a.lastHash = result.Hash

	return result, nil
}

// sweep removes every bidder below the threshold in two passes so that
// several disqualifications in one round cannot skip a bidder.
func (a *Auction) sweep() []string {
	var out []Bidder
	for _, b := range a.active {
		if a.balances[b] < a.threshold {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil
	}

	names := make([]string, 0, len(out))
	for _, b := range out {
		delete(a.balances, b)
		names = append(names, b.Name())
	}
	a.active = slices.DeleteFunc(a.active, func(b Bidder) bool {
		_, ok := a.balances[b]
		return !ok
	})
	return names
}

// ActiveBidders returns the qualified bidders in roster order.
func (a *Auction) ActiveBidders() []Bidder {
	return slices.Clone(a.active)
}

// LedgerBalance returns the auction's record of b's balance. The second
// result is false once b has been disqualified.
func (a *Auction) LedgerBalance(b Bidder) (float64, bool) {
	balance, ok := a.balances[b]
	return balance, ok
}

// PopulationSize returns the number of users.
func (a *Auction) PopulationSize() int { return len(a.users) }

// Round returns the number of executed rounds.
func (a *Auction) Round() int { return a.round }

// TranscriptHash is the hash of the last executed round.
func (a *Auction) TranscriptHash() string { return a.lastHash }

// Terminal reports whether every bidder has been disqualified or will be at
// the next sweep.
func (a *Auction) Terminal() bool {
	for _, b := range a.active {
		if a.balances[b] >= a.threshold {
			return false
		}
	}
	return true
}
