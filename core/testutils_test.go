package core

// mockRandSource provides a deterministic random source for testing.
// Exhausted sequences yield 0.
type mockRandSource struct {
	ints     []int
	intIdx   int
	floats   []float64
	floatIdx int
}

func (m *mockRandSource) Intn(n int) int {
	if m.intIdx >= len(m.ints) {
		return 0
	}
	val := m.ints[m.intIdx] % n
	m.intIdx++
	return val
}

func (m *mockRandSource) Float64() float64 {
	if m.floatIdx >= len(m.floats) {
		return 0
	}
	val := m.floats[m.floatIdx]
	m.floatIdx++
	return val
}

// noTieRandSource fails the test if a tie-break is requested.
type noTieRandSource struct{}

func (noTieRandSource) Intn(int) int {
	panic("random source consulted without a tie")
}

func (noTieRandSource) Float64() float64 { return 0 }

// stubBidder bids a fixed amount and records every notification.
type stubBidder struct {
	account
	amount        float64
	bidUsers      []UserID
	notifications []Notification
}

func newStubBidder(name string, amount float64) *stubBidder {
	return &stubBidder{account: newAccount(name, 0), amount: amount}
}

func (b *stubBidder) Bid(user UserID) float64 {
	b.bidUsers = append(b.bidUsers, user)
	return b.amount
}

func (b *stubBidder) Notify(n Notification) {
	b.notifications = append(b.notifications, n)
	b.settle(n)
}

func mustUser(p float64) *User {
	u, err := NewUserWithProbability(p)
	if err != nil {
		panic(err)
	}
	return u
}

func bidderNames(bidders []Bidder) []string {
	names := make([]string, len(bidders))
	for i, b := range bidders {
		names[i] = b.Name()
	}
	return names
}
