package simapi

import (
	"time"
)

// ReportConfig records the parameters a run was started with. Replaying a
// run from its ReportConfig reproduces it exactly.
type ReportConfig struct {
	Users                     int       `json:"users" cbor:"users" yaml:"users"`
	Rounds                    int       `json:"rounds" cbor:"rounds" yaml:"rounds"`
	Seed                      uint64    `json:"seed" cbor:"seed" yaml:"seed"`
	Epsilons                  []float64 `json:"epsilons" cbor:"epsilons" yaml:"epsilons"`
	IncludeRandom             bool      `json:"include_random" cbor:"include_random" yaml:"include_random"`
	IncludeUCB                bool      `json:"include_ucb" cbor:"include_ucb" yaml:"include_ucb"`
	FixedBids                 []float64 `json:"fixed_bids,omitempty" cbor:"fixed_bids,omitempty" yaml:"fixed_bids,omitempty"`
	DisqualificationThreshold float64   `json:"disqualification_threshold" cbor:"disqualification_threshold" yaml:"disqualification_threshold"`
	RecordRounds              bool      `json:"record_rounds" cbor:"record_rounds" yaml:"record_rounds"`
}

// BidderReport is the end-of-run state of one bidder.
type BidderReport struct {
	Name     string `json:"name" cbor:"name" yaml:"name"`
	Strategy string `json:"strategy" cbor:"strategy" yaml:"strategy"`

	FinalBalance   float64   `json:"final_balance" cbor:"final_balance" yaml:"final_balance"`
	BalanceHistory []float64 `json:"balance_history" cbor:"balance_history" yaml:"balance_history"`

	Wins   int     `json:"wins" cbor:"wins" yaml:"wins"`
	Clicks int     `json:"clicks" cbor:"clicks" yaml:"clicks"`
	Spend  float64 `json:"spend" cbor:"spend" yaml:"spend"`

	// DisqualifiedAtRound is the round whose sweep removed the bidder, 0 if
	// the bidder stayed qualified.
	DisqualifiedAtRound int `json:"disqualified_at_round,omitempty" cbor:"disqualified_at_round,omitempty" yaml:"disqualified_at_round,omitempty"`
}

// BidRecord is one bid within a recorded round.
type BidRecord struct {
	Bidder string  `json:"bidder" cbor:"bidder" yaml:"bidder"`
	Amount float64 `json:"amount" cbor:"amount" yaml:"amount"`
}

// RoundRecord is the transcript entry of one executed round.
type RoundRecord struct {
	Round        int         `json:"round" cbor:"round" yaml:"round"`
	UserID       int         `json:"user_id" cbor:"user_id" yaml:"user_id"`
	Bids         []BidRecord `json:"bids" cbor:"bids" yaml:"bids"`
	Winner       string      `json:"winner" cbor:"winner" yaml:"winner"`
	Price        float64     `json:"price" cbor:"price" yaml:"price"`
	Clicked      bool        `json:"clicked" cbor:"clicked" yaml:"clicked"`
	Disqualified []string    `json:"disqualified,omitempty" cbor:"disqualified,omitempty" yaml:"disqualified,omitempty"`
	Hash         string      `json:"hash" cbor:"hash" yaml:"hash"`
}

// RunReport is the complete output of a simulation run. Downstream consumers
// (plotting, reporting) read only this structure.
type RunReport struct {
	RunID  string       `json:"run_id" cbor:"run_id" yaml:"run_id"`
	Config ReportConfig `json:"config" cbor:"config" yaml:"config"`

	RoundsPlayed int  `json:"rounds_played" cbor:"rounds_played" yaml:"rounds_played"`
	StoppedEarly bool `json:"stopped_early" cbor:"stopped_early" yaml:"stopped_early"`

	// TranscriptDigest is the hash of the last executed round.
	TranscriptDigest string `json:"transcript_digest" cbor:"transcript_digest" yaml:"transcript_digest"`

	Bidders []BidderReport `json:"bidders" cbor:"bidders" yaml:"bidders"`
	Rounds  []RoundRecord  `json:"rounds,omitempty" cbor:"rounds,omitempty" yaml:"rounds,omitempty"`

	GeneratedAt    time.Time `json:"generated_at" cbor:"generated_at" yaml:"generated_at"`
	ProcessingTime int64     `json:"processing_time_ms" cbor:"processing_time_ms" yaml:"processing_time_ms"`
}

// Bidder returns the report of the named bidder, or nil.
func (r *RunReport) Bidder(name string) *BidderReport {
	for i := range r.Bidders {
		if r.Bidders[i].Name == name {
			return &r.Bidders[i]
		}
	}
	return nil
}
