package core

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// GenesisHash seeds the transcript chain of a run.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// ComputeBidsHash computes the hash of a round's bids in roster order.
//
// Formula: SHA256(bidder1 + ":" + sprintf("%.6f", amount1) + "|" + bidder2 + ...)
//
// Amounts are formatted to exactly 6 decimal places to ensure consistent hashing
// regardless of how the float is represented in memory.
func ComputeBidsHash(bids []RoundBid) string {
	parts := make([]string, len(bids))
	for i, bid := range bids {
		parts[i] = fmt.Sprintf("%s:%.6f", bid.Bidder, bid.Amount)
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", hash)
}

// ComputeRoundHash chains an executed round onto the previous round's hash.
// Replaying a run with the same seed must reproduce every link of the chain.
//
// Formula: SHA256(prev + "|" + round + "|" + user + "|" + bids_hash + "|" + winner + "|" + sprintf("%.6f", price) + "|" + clicked)
func ComputeRoundHash(prev string, r *RoundResult) string {
	data := fmt.Sprintf("%s|%d|%d|%s|%s|%.6f|%t",
		prev, r.Round, r.UserID, ComputeBidsHash(r.Bids), r.Winner, r.Price, r.Clicked)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
