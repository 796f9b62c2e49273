package simulation

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/adauction/core"
	"github.com/cloudx-io/adauction/simapi"
)

// bidderTally accumulates the per-bidder figures reported at the end of a run.
type bidderTally struct {
	wins           int
	clicks         int
	spend          decimal.Decimal
	disqualifiedAt int
}

// Runner executes a fixed number of rounds of one auction. A Runner is
// single-use and not safe for concurrent use.
type Runner struct {
	cfg     Config
	rs      core.RandSource
	users   []*core.User
	bidders []core.Bidder
	auction *core.Auction

	tallies map[string]*bidderTally
	rounds  []simapi.RoundRecord
}

// NewRunner validates cfg and builds the population, roster and auction
// from a single random source seeded with cfg.Seed. The population is drawn
// before any bidder is created so that user probabilities depend only on the
// seed and the population size.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rs := core.NewSeededRandSource(cfg.Seed)
	users := BuildPopulation(cfg.Users, rs)

	bidders, err := BuildRoster(cfg, rs)
	if err != nil {
		return nil, fmt.Errorf("build roster: %w", err)
	}

	auction, err := core.NewAuction(users, bidders, rs,
		core.WithDisqualificationThreshold(cfg.DisqualificationThreshold))
	if err != nil {
		return nil, fmt.Errorf("create auction: %w", err)
	}

	tallies := make(map[string]*bidderTally, len(bidders))
	for _, b := range bidders {
		tallies[b.Name()] = &bidderTally{}
	}

	return &Runner{
		cfg:     cfg,
		rs:      rs,
		users:   users,
		bidders: bidders,
		auction: auction,
		tallies: tallies,
	}, nil
}

// Bidders returns the full roster, including disqualified bidders.
func (r *Runner) Bidders() []core.Bidder { return r.bidders }

// Run executes up to cfg.Rounds rounds and returns the run report. The run
// stops early when every bidder has been disqualified.
func (r *Runner) Run() (*simapi.RunReport, error) {
	startTime := time.Now()
	log.Printf("INFO: Starting run: %d users, %d bidders, %d rounds, seed %d",
		r.cfg.Users, len(r.bidders), r.cfg.Rounds, r.cfg.Seed)

	stoppedEarly := false
	for i := 0; i < r.cfg.Rounds; i++ {
		result, err := r.auction.ExecuteRound()
		if err != nil {
			log.Printf("ERROR: Round %d failed: %v", i+1, err)
			return nil, fmt.Errorf("execute round %d: %w", i+1, err)
		}

		r.recordDisqualified(result.Disqualified)
		if result.Status == core.RoundAllDisqualified {
			log.Printf("WARNING: %s after %d rounds", result.Status, r.auction.Round())
			stoppedEarly = true
			break
		}
		r.record(result)

		if r.cfg.ProgressInterval > 0 && result.Round%r.cfg.ProgressInterval == 0 {
			log.Printf("INFO: Round %d/%d complete, %d bidders active",
				result.Round, r.cfg.Rounds, len(r.auction.ActiveBidders()))
		}
	}

	report := r.report(stoppedEarly)
	report.ProcessingTime = time.Since(startTime).Milliseconds()

	log.Printf("INFO: Run %s complete: rounds=%d, stopped_early=%t, digest=%s, processing=%dms",
		report.RunID, report.RoundsPlayed, report.StoppedEarly, report.TranscriptDigest, report.ProcessingTime)

	return report, nil
}

func (r *Runner) recordDisqualified(names []string) {
	for _, name := range names {
		r.tallies[name].disqualifiedAt = r.auction.Round() + 1
		log.Printf("INFO: Bidder %s disqualified before round %d", name, r.auction.Round()+1)
	}
}

func (r *Runner) record(result *core.RoundResult) {
	tally := r.tallies[result.Winner]
	tally.wins++
	tally.spend = tally.spend.Add(decimal.NewFromFloat(result.Price))
	if result.Clicked {
		tally.clicks++
	}

	if !r.cfg.RecordRounds {
		return
	}
	bids := make([]simapi.BidRecord, len(result.Bids))
	for i, b := range result.Bids {
		bids[i] = simapi.BidRecord{Bidder: b.Bidder, Amount: b.Amount}
	}
	r.rounds = append(r.rounds, simapi.RoundRecord{
		Round:        result.Round,
		UserID:       int(result.UserID),
		Bids:         bids,
		Winner:       result.Winner,
		Price:        result.Price,
		Clicked:      result.Clicked,
		Disqualified: result.Disqualified,
		Hash:         result.Hash,
	})
}

func (r *Runner) report(stoppedEarly bool) *simapi.RunReport {
	bidders := make([]simapi.BidderReport, len(r.bidders))
	for i, b := range r.bidders {
		tally := r.tallies[b.Name()]
		spend, _ := tally.spend.Float64()
		bidders[i] = simapi.BidderReport{
			Name:                b.Name(),
			Strategy:            StrategyOf(b),
			FinalBalance:        b.Balance(),
			BalanceHistory:      b.BalanceHistory(),
			Wins:                tally.wins,
			Clicks:              tally.clicks,
			Spend:               spend,
			DisqualifiedAtRound: tally.disqualifiedAt,
		}
	}

	return &simapi.RunReport{
		RunID:            uuid.NewString(),
		Config:           r.cfg.ReportConfig(),
		RoundsPlayed:     r.auction.Round(),
		StoppedEarly:     stoppedEarly,
		TranscriptDigest: r.auction.TranscriptHash(),
		Bidders:          bidders,
		Rounds:           r.rounds,
		GeneratedAt:      time.Now().UTC(),
	}
}

// Run is a convenience wrapper around NewRunner and Runner.Run.
func Run(cfg Config) (*simapi.RunReport, error) {
	runner, err := NewRunner(cfg)
	if err != nil {
		return nil, err
	}
	return runner.Run()
}
