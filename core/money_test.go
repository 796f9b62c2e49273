package core

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestRoundBid(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected float64
	}{
		{"already rounded", 0.5, 0.5},
		{"rounds down", 0.12345, 0.123},
		{"rounds half away from zero", 0.1235, 0.124},
		{"rounds up to one", 0.9999, 1.0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, RoundBid(tt.amount))
		})
	}
}

func TestUniformBid(t *testing.T) {
	rs := &mockRandSource{floats: []float64{0.5, 0.25}}

	check.Equal(t, 0.495, UniformBid(rs, 0, 0.99))
	check.Equal(t, 0.1, UniformBid(rs, 0, 0.4))

	// Empty interval does not consume the random source
	check.Equal(t, 0.0, UniformBid(noTieRandSource{}, 0, 0))
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		clicked  bool
		price    float64
		expected float64
	}{
		{"click at second price", 0, true, 0.3, 0.7},
		{"no click", 0, false, 0.5, -0.5},
		{"accumulates without drift", 0.1, true, 0.2, 0.9},
		{"free impression", -3.5, false, 0, -3.5},
		{"deep loss", -999.999, false, 0.002, -1000.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, Settle(tt.balance, tt.clicked, tt.price))
		})
	}
}

func TestSettle_RepeatedSmallPrices(t *testing.T) {
	balance := 0.0
	for range 1000 {
		balance = Settle(balance, false, 0.001)
	}
	check.Equal(t, -1.0, balance)
}

func TestValidBid(t *testing.T) {
	check.True(t, ValidBid(0))
	check.True(t, ValidBid(0.99))
	check.True(t, ValidBid(1000))
	check.False(t, ValidBid(-0.001))
	check.False(t, ValidBid(math.NaN()))
	check.False(t, ValidBid(math.Inf(1)))
	check.False(t, ValidBid(math.Inf(-1)))
}
