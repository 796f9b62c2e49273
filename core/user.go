package core

import (
	"fmt"
	"math"
)

// User is a member of the auction's population with a hidden probability of
// clicking on an ad. The probability is fixed at construction.
type User struct {
	clickProbability float64
}

// NewUser draws the user's click probability uniformly from [0, 1).
func NewUser(rs RandSource) *User {
	return &User{clickProbability: rs.Float64()}
}

// NewUserWithProbability creates a user with a known click probability.
func NewUserWithProbability(p float64) (*User, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("%v: %w", p, ErrInvalidProbability)
	}
	return &User{clickProbability: p}, nil
}

// ShowAd returns true if the user clicks on the ad.
func (u *User) ShowAd(rs RandSource) bool {
	return rs.Float64() < u.clickProbability
}

// ClickProbability is exposed for reporting only; bidders never see it.
func (u *User) ClickProbability() float64 {
	return u.clickProbability
}

func (u *User) String() string {
	return fmt.Sprintf("user(p=%.4f)", u.clickProbability)
}
