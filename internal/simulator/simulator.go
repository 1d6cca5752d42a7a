package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/mendikot/internal/bot"
	"github.com/lox/mendikot/internal/game"
	"github.com/lox/mendikot/internal/match"
	"github.com/lox/mendikot/internal/randutil"
	"github.com/lox/mendikot/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Matches   int
	Deals     int // deals per match
	TeamA     bot.Difficulty
	TeamB     bot.Difficulty
	Variant   game.Variant
	Seed      int64
	Timeout   time.Duration // per match
	Workers   int
	Duplicate bool // replay every match with the teams' difficulties swapped
	Logger    *log.Logger
}

// Label describes the matchup.
func (c Config) Label() string {
	return fmt.Sprintf("%s vs %s (%s)", c.TeamA, c.TeamB, c.Variant)
}

// Simulator runs bot-versus-bot Mendikot matches
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	config.Logger = config.Logger.WithPrefix("simulator")
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Deals <= 0 {
		config.Deals = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Simulator{config: config}
}

// Run plays every match across a pool of workers and returns the merged
// statistics. Team A in the statistics is always the TeamA difficulty,
// including in swapped duplicate matches.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	seed := randutil.Resolve(s.config.Seed)
	workers := min(s.config.Workers, max(s.config.Matches, 1))
	s.config.Logger.Info("Starting simulation", "matchup", s.config.Label(), "matches", s.config.Matches,
		"deals", s.config.Deals, "workers", workers, "seed", seed, "duplicate", s.config.Duplicate)

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan *statistics.Statistics, workers)

	for w := range workers {
		g.Go(func() error {
			local := &statistics.Statistics{}
			for i := w; i < s.config.Matches; i += workers {
				matchSeed := randutil.Derive(seed, i)
				if err := s.playMatch(ctx, local, matchSeed, false); err != nil {
					return fmt.Errorf("match %d: %w", i+1, err)
				}
				if s.config.Duplicate {
					if err := s.playMatch(ctx, local, matchSeed, true); err != nil {
						return fmt.Errorf("duplicate match %d: %w", i+1, err)
					}
				}
			}
			select {
			case results <- local:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	stats := &statistics.Statistics{}
	for local := range results {
		stats.Merge(local)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// playMatch runs one match with timeout protection.
func (s *Simulator) playMatch(ctx context.Context, stats *statistics.Statistics, seed int64, swapped bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	quiet := s.config.Logger.WithPrefix("")
	quiet.SetLevel(max(s.config.Logger.GetLevel(), log.WarnLevel))

	engine, agents := s.newMatch(seed, swapped, quiet)
	runner := match.NewRunner(engine, agents, match.WithDeals(s.config.Deals), match.WithLogger(quiet))
	summary, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("timed out after %v (seed %d, swapped %t): %w", s.config.Timeout, seed, swapped, err)
		}
		return err
	}

	score := summary.Score
	for _, d := range summary.Deals {
		if swapped {
			d = Mirror(d)
		}
		stats.Add(d)
	}
	if swapped {
		score[0], score[1] = score[1], score[0]
	}
	stats.AddMatch(score)
	return nil
}

// newMatch seats four bots for one match. The deck order and seating come
// from seed alone; swapped only exchanges the two teams' difficulties, so
// each difficulty plays the cards the other one held in the plain match.
func (s *Simulator) newMatch(seed int64, swapped bool, logger *log.Logger) (*game.Engine, [game.NumSeats]match.Agent) {
	difficulty := [2]bot.Difficulty{s.config.TeamA, s.config.TeamB}
	if swapped {
		difficulty[0], difficulty[1] = difficulty[1], difficulty[0]
	}

	engine := game.NewEngine(randutil.New(seed),
		game.WithVariant(s.config.Variant),
		game.WithLogger(logger),
	)
	var agents [game.NumSeats]match.Agent
	for i := range agents {
		seat := game.Seat(i)
		policy := bot.NewPolicy(randutil.New(randutil.Derive(seed, i+1)), logger)
		agents[i] = match.NewBotAgent(policy, difficulty[seat.Team()])
	}
	return engine, agents
}

// Mirror restates a deal result with the teams exchanged, so a swapped
// duplicate match is credited to the difficulty that actually played.
// Seats and dealers are unchanged.
func Mirror(d game.DealResult) game.DealResult {
	if d.Winner != nil {
		w := d.Winner.Other()
		d.Winner = &w
	}
	d.Tallies[0], d.Tallies[1] = d.Tallies[1], d.Tallies[0]
	return d
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, matches int, teamA, teamB bot.Difficulty, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Matches: matches,
		Deals:   1,
		TeamA:   teamA,
		TeamB:   teamB,
		Seed:    seed,
		Logger:  logger,
	}).Run(ctx)
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, cfg Config) {
	aLow, aHigh := stats.WinRateCI95(game.TeamA)
	bLow, bHigh := stats.WinRateCI95(game.TeamB)
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s ===\n", cfg.Label())
	fmt.Fprintf(w, "Matches played: %d (A %d, B %d, tied %d)\n", stats.Matches, stats.MatchWins[0], stats.MatchWins[1], stats.MatchesTied)
	fmt.Fprintf(w, "Deals played: %d (%d scored, %d aborted)\n", stats.Deals, stats.Scored(), stats.Aborted)

	fmt.Fprintf(w, "\n=== DEAL WINS ===\n")
	fmt.Fprintf(w, "Team A (%s): %d (%.1f%%, 95%% CI [%.1f%%, %.1f%%])\n", cfg.TeamA, stats.Wins[0], stats.WinRate(game.TeamA)*100, aLow*100, aHigh*100)
	fmt.Fprintf(w, "Team B (%s): %d (%.1f%%, 95%% CI [%.1f%%, %.1f%%])\n", cfg.TeamB, stats.Wins[1], stats.WinRate(game.TeamB)*100, bLow*100, bHigh*100)
	fmt.Fprintf(w, "Draws: %d\n", stats.Draws)

	fmt.Fprintf(w, "\n=== TENS MARGIN (A - B) ===\n")
	fmt.Fprintf(w, "Mean: %.3f tens/deal, median %.1f, std dev %.3f\n", stats.Mean(), stats.Median(), stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.3f, %.3f]\n", low, high)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for _, r := range []game.OutcomeReason{
		game.ReasonMendikot, game.ReasonThreeTens, game.ReasonTwoTensMajority,
		game.ReasonMoreTens, game.ReasonTiedTensMajority, game.ReasonDraw, game.ReasonAborted,
	} {
		if n := stats.Reasons[r]; n > 0 {
			fmt.Fprintf(w, "%-20s %d\n", r.String()+":", n)
		}
	}
	fmt.Fprintf(w, "Mendikots: A %d, B %d\n", stats.Mendikots[0], stats.Mendikots[1])
	fmt.Fprintf(w, "Whitewashes: A %d, B %d\n", stats.Whitewashes[0], stats.Whitewashes[1])

	fmt.Fprintf(w, "\n=== DEALER ANALYSIS ===\n")
	for i := range game.NumSeats {
		seat := game.Seat(i)
		if ds := stats.DealerResults[seat]; ds.Deals > 0 {
			fmt.Fprintf(w, "%s dealing: %d deals, Team A wins %.1f%%\n", seat, ds.Deals, stats.DealerWinRate(seat, game.TeamA)*100)
		}
	}
}
