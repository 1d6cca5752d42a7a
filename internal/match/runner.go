// Package match drives a Mendikot engine with four agents: it sequences
// deals and turns, paces bot play on an injectable clock, discards stale
// decisions and bounds how often a bot may propose a rejected action.
package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/mendikot/internal/game"
	"github.com/lox/mendikot/internal/gameid"
)

// DefaultMaxRetries is how many rejected bot actions a turn tolerates
// before the deal is aborted.
const DefaultMaxRetries = 3

// Summary is the outcome of a match.
type Summary struct {
	MatchID string
	Deals   []game.DealResult
	Score   [2]int // deals won per team
	Draws   int
	Aborted int
	Quit    bool // a human left before the match finished
}

// Record adds one completed deal.
func (s *Summary) Record(d game.DealResult) {
	s.Deals = append(s.Deals, d)
	switch {
	case d.Err != nil:
		s.Aborted++
	case d.Winner == nil:
		s.Draws++
	default:
		s.Score[*d.Winner]++
	}
}

// Leader returns the team with more deals won, or nil when level.
func (s *Summary) Leader() *game.TeamID {
	var t game.TeamID
	switch {
	case s.Score[game.TeamA] > s.Score[game.TeamB]:
		t = game.TeamA
	case s.Score[game.TeamB] > s.Score[game.TeamA]:
		t = game.TeamB
	default:
		return nil
	}
	return &t
}

// Runner plays a match on one engine. A Runner is single-use and not safe
// for concurrent use.
type Runner struct {
	engine     *game.Engine
	agents     [game.NumSeats]Agent
	clock      quartz.Clock
	logger     *log.Logger
	ids        *gameid.Generator
	deals      int
	think      time.Duration
	trickHold  time.Duration
	maxRetries int
	onResult   func(game.Result)
	onMessage  func(game.Seat, string)
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used for pacing pauses.
func WithClock(c quartz.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDeals sets how many deals to play. Zero plays until the context is
// cancelled.
func WithDeals(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("deal count must be non-negative, got %d", n))
	}
	return func(r *Runner) { r.deals = n }
}

// WithPacing sets the pause before each bot decision and the pause that
// keeps a completed trick on screen.
func WithPacing(think, trickHold time.Duration) Option {
	return func(r *Runner) {
		r.think = think
		r.trickHold = trickHold
	}
}

// WithMaxRetries sets the rejected-action budget per bot turn.
func WithMaxRetries(n int) Option {
	return func(r *Runner) { r.maxRetries = max(n, 0) }
}

// WithIDGenerator sets the generator for the match ID.
func WithIDGenerator(g *gameid.Generator) Option {
	return func(r *Runner) { r.ids = g }
}

// OnResult registers a hook called after every accepted engine mutation.
func OnResult(fn func(game.Result)) Option {
	return func(r *Runner) { r.onResult = fn }
}

// OnMessage registers a hook for messages addressed to a seat, such as
// the reason a human action was rejected.
func OnMessage(fn func(game.Seat, string)) Option {
	return func(r *Runner) { r.onMessage = fn }
}

// NewRunner creates a runner for engine with one agent per seat.
func NewRunner(engine *game.Engine, agents [game.NumSeats]Agent, opts ...Option) *Runner {
	if engine == nil {
		panic("engine is required for runner creation")
	}
	for i, a := range agents {
		if a == nil {
			panic(fmt.Sprintf("agent for %s is nil", game.Seat(i)))
		}
	}
	r := &Runner{
		engine:     engine,
		agents:     agents,
		clock:      quartz.NewReal(),
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		ids:        gameid.NewGenerator(nil),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithPrefix("match")
	return r
}

// Run plays deals until the configured count is reached, the context is
// cancelled or a human quits, then ends the match. The summary covers
// every deal completed before Run returned.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	s := &Summary{MatchID: r.ids.Generate()}
	r.logger.Info("Match starting", "id", s.MatchID, "deals", r.deals, "variant", r.engine.Variant())

	err := r.play(ctx, s)
	r.publish(r.engine.EndMatch())
	if errors.Is(err, ErrQuit) {
		s.Quit = true
		err = nil
	}
	r.logger.Info("Match over", "id", s.MatchID, "deals", len(s.Deals), "score", s.Score, "draws", s.Draws, "aborted", s.Aborted)
	return s, err
}

func (r *Runner) play(ctx context.Context, s *Summary) error {
	for r.deals == 0 || len(s.Deals) < r.deals {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.engine.StartNewDeal()
		if err != nil {
			// A failed deal is already recorded as aborted by the engine.
			r.logger.Error("Deal failed to start", "error", err)
			if d := r.engine.LastDeal(); d != nil {
				s.Record(*d)
			}
			continue
		}
		r.publish(res)

		for r.engine.Phase() != game.PhaseDealCompleted {
			if err := r.turn(ctx); err != nil {
				return err
			}
		}
		s.Record(*r.engine.LastDeal())
	}
	return nil
}

// turn obtains and applies one action from the seat to act.
func (r *Runner) turn(ctx context.Context) error {
	seat := r.engine.Turn()
	if !seat.Valid() {
		res, err := r.engine.Abort(fmt.Errorf("no seat to act in phase %s", r.engine.Phase()))
		if err != nil {
			return err
		}
		r.publish(res)
		return nil
	}
	agent := r.agents[seat]
	human := isHuman(agent)

	rejected := 0
	for {
		rev := r.engine.Revision()
		v := r.engine.Snapshot(seat)
		if !human {
			if err := r.pause(ctx, r.think, "think"); err != nil {
				return err
			}
		}

		a, err := agent.Decide(ctx, v)
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil && human {
			// Prompt failures (closed input, quit) end the match.
			return err
		}
		if err == nil && (r.engine.Revision() != rev || r.engine.Turn() != seat) {
			r.logger.Warn("Discarding stale decision", "seat", seat, "action", a)
			return nil
		}

		if err == nil {
			var res game.Result
			if res, err = r.engine.Apply(seat, a); err == nil {
				r.logger.Debug("Applied", "seat", seat, "action", a, "reasoning", a.Reasoning)
				r.publish(res)
				return r.afterApply(ctx, res)
			}
		}

		if human {
			r.logger.Warn("Rejected human action", "seat", seat, "action", a, "error", err)
			r.message(seat, err.Error())
			continue
		}

		rejected++
		r.logger.Error("Rejected bot action", "seat", seat, "action", a, "attempt", rejected, "error", err)
		if rejected > r.maxRetries {
			cause := &game.ActionError{
				Kind: game.KindInvariantBroken,
				Seat: seat,
				Op:   "turn",
				Msg:  fmt.Sprintf("no acceptable action after %d attempts", rejected),
				Err:  err,
			}
			res, aerr := r.engine.Abort(cause)
			if aerr != nil {
				return aerr
			}
			r.publish(res)
			return nil
		}
	}
}

// afterApply holds a completed trick and audits the card count.
func (r *Runner) afterApply(ctx context.Context, res game.Result) error {
	if !res.TrickCompleted() {
		return nil
	}
	if err := r.engine.CheckConservation(); err != nil {
		if res.DealCompleted() {
			r.logger.Error("Card conservation failed after deal", "deal", res.Deal.Number, "error", err)
		} else {
			abortRes, aerr := r.engine.Abort(err)
			if aerr != nil {
				return aerr
			}
			r.publish(abortRes)
		}
	}
	return r.pause(ctx, r.trickHold, "trick-hold")
}

// pause waits d on the runner's clock, returning early with the context's
// error if it is cancelled.
func (r *Runner) pause(ctx context.Context, d time.Duration, tag string) error {
	if d <= 0 {
		return ctx.Err()
	}
	done := make(chan struct{})
	timer := r.clock.AfterFunc(d, func() { close(done) }, "match", tag)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) publish(res game.Result) {
	if r.onResult != nil {
		r.onResult(res)
	}
}

func (r *Runner) message(seat game.Seat, msg string) {
	if r.onMessage != nil {
		r.onMessage(seat, msg)
	}
}
