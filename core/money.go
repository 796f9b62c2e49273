package core

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	bidPrecision    int32 = 3 // bids are quoted to 0.001
	ledgerPrecision int32 = 6 // balances are kept to 0.000001
)

// ValidBid reports whether amount can be placed as a bid: finite and
// non-negative.
func ValidBid(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}

// RoundBid rounds a bid amount to bidPrecision decimal places.
// Uses decimal arithmetic to avoid floating-point errors.
func RoundBid(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(bidPrecision).Float64()
	return rounded
}

// UniformBid draws a bid uniformly from [lo, hi] and rounds it to bidPrecision.
// An empty or inverted interval bids lo.
func UniformBid(rs RandSource, lo, hi float64) float64 {
	if hi <= lo {
		return RoundBid(lo)
	}
	return RoundBid(lo + rs.Float64()*(hi-lo))
}

// Payoff is the net profit of winning a single impression: one unit of value
// if the user clicked, minus the price paid.
func Payoff(clicked bool, price float64) decimal.Decimal {
	value := decimal.Zero
	if clicked {
		value = decimal.NewFromInt(1)
	}
	return value.Sub(decimal.NewFromFloat(price))
}

// Settle applies a won impression to a balance: balance + clicked - price.
func Settle(balance float64, clicked bool, price float64) float64 {
	result, _ := decimal.NewFromFloat(balance).
		Add(Payoff(clicked, price)).
		Round(ledgerPrecision).
		Float64()
	return result
}
