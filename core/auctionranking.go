package core

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// RandSource provides random number generation for the simulation.
// This interface enables dependency injection for deterministic testing.
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// seededRandSource wraps a PCG generator so that one seed reproduces a run.
type seededRandSource struct {
	rng *rand.Rand
}

// NewSeededRandSource returns the single shared random source of a run.
func NewSeededRandSource(seed uint64) RandSource {
	return &seededRandSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn panics if n <= 0 (programmer error).
func (s *seededRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("seededRandSource.Intn: n must be positive, got %d", n))
	}
	return s.rng.IntN(n)
}

func (s *seededRandSource) Float64() float64 {
	return s.rng.Float64()
}

// RankingResult contains the winner and clearing price of a second-price round.
type RankingResult struct {
	// WinnerIndex is the slot of the winning bid in the input slice.
	WinnerIndex int

	// Price is the highest bid outside the winner's slot, or the winner's own
	// bid when only one bid was placed.
	Price float64

	// TiedIndices lists every slot holding the maximum bid.
	TiedIndices []int
}

// RankRoundBids picks the winner of a sealed-bid round and its second price.
// Ties for the maximum are broken uniformly at random using randSource; the
// source is only consulted when there is more than one tied bid.
func RankRoundBids(bids []float64, randSource RandSource) (*RankingResult, error) {
	if len(bids) == 0 {
		return nil, ErrNoBidders
	}

	maxBid := math.Inf(-1)
	for i, bid := range bids {
		if !ValidBid(bid) {
			return nil, fmt.Errorf("slot %d bid %v: %w", i, bid, ErrNegativeBid)
		}
		if bid > maxBid {
			maxBid = bid
		}
	}

	tied := make([]int, 0, 1)
	for i, bid := range bids {
		if bid == maxBid {
			tied = append(tied, i)
		}
	}

	winner := tied[0]
	if len(tied) > 1 {
		if randSource == nil {
			return nil, ErrNoRandSource
		}
		winner = tied[randSource.Intn(len(tied))]
	}

	price := bids[winner]
	if len(bids) > 1 {
		price = math.Inf(-1)
		for i, bid := range bids {
			if i != winner && bid > price {
				price = bid
			}
		}
	}

	return &RankingResult{
		WinnerIndex: winner,
		Price:       price,
		TiedIndices: tied,
	}, nil
}
