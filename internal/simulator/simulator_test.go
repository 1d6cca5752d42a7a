package simulator

import (
	"bytes"
	"context"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/mendikot/internal/bot"
	"github.com/lox/mendikot/internal/game"
	"github.com/lox/mendikot/internal/match"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestNew(t *testing.T) {
	simulator := New(Config{Matches: 10, TeamA: bot.High, TeamB: bot.Low, Seed: 12345})
	if simulator == nil {
		t.Fatal("New() returned nil")
	}
	if simulator.config.Deals != 1 {
		t.Errorf("Expected default of 1 deal per match, got %d", simulator.config.Deals)
	}
	if simulator.config.Workers <= 0 {
		t.Errorf("Expected a positive worker count, got %d", simulator.config.Workers)
	}
	if simulator.config.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout of 30s, got %v", simulator.config.Timeout)
	}
	if got := simulator.config.Label(); got != "high vs low (auto)" {
		t.Errorf("Unexpected label %q", got)
	}
}

func TestRunSimulation_Convenience(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 4, bot.Medium, bot.Medium, 12345, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	if stats.Deals != 4 || stats.Matches != 4 {
		t.Errorf("Expected 4 deals in 4 matches, got %d deals in %d matches", stats.Deals, stats.Matches)
	}
	if stats.Aborted != 0 {
		t.Errorf("Expected no aborted deals between bots, got %d", stats.Aborted)
	}
}

func TestSimulator_Duplicate(t *testing.T) {
	for _, variant := range []game.Variant{game.VariantAutoReveal, game.VariantOptionalReveal} {
		t.Run(variant.String(), func(t *testing.T) {
			stats, err := New(Config{
				Matches:   3,
				Deals:     2,
				TeamA:     bot.High,
				TeamB:     bot.Low,
				Variant:   variant,
				Seed:      99,
				Workers:   2,
				Duplicate: true,
				Logger:    quietLogger(),
			}).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if stats.Matches != 6 { // 3 matches * 2 (duplicate mode)
				t.Errorf("Expected 6 matches, got %d", stats.Matches)
			}
			if stats.Deals != 12 {
				t.Errorf("Expected 12 deals, got %d", stats.Deals)
			}
		})
	}
}

func TestSimulator_DeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) [2]int {
		stats, err := New(Config{Matches: 6, TeamA: bot.High, TeamB: bot.Medium, Seed: 7, Workers: workers, Logger: quietLogger()}).Run(context.Background())
		if err != nil {
			t.Fatalf("Run() with %d workers failed: %v", workers, err)
		}
		return stats.Wins
	}
	if one, three := run(1), run(3); one != three {
		t.Errorf("Worker count changed results: %v vs %v", one, three)
	}
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Config{Matches: 2, Logger: quietLogger()}).Run(ctx); err == nil {
		t.Error("Expected an error from a cancelled simulation")
	}
}

func TestSimulator_DuplicateSwapsCards(t *testing.T) {
	sim := New(Config{TeamA: bot.High, TeamB: bot.Medium, Logger: quietLogger()})
	plain, plainAgents := sim.newMatch(42, false, quietLogger())
	swapped, swappedAgents := sim.newMatch(42, true, quietLogger())
	for _, e := range []*game.Engine{plain, swapped} {
		if _, err := e.StartNewDeal(); err != nil {
			t.Fatalf("StartNewDeal() failed: %v", err)
		}
	}
	if plain.Dealer() != swapped.Dealer() {
		t.Fatalf("Expected the same dealer, got %s and %s", plain.Dealer(), swapped.Dealer())
	}

	for i := range game.NumSeats {
		seat := game.Seat(i)
		if !slices.Equal(plain.Hand(seat), swapped.Hand(seat)) {
			t.Errorf("%s was dealt different cards in the duplicate match", seat)
		}
		before := plainAgents[seat].(*match.BotAgent).Config.Difficulty
		after := swappedAgents[seat].(*match.BotAgent).Config.Difficulty
		other := sim.config.TeamA
		if seat.Team() == game.TeamA {
			other = sim.config.TeamB
		}
		if after == before || after != other {
			t.Errorf("%s played %s then %s, want %s in the duplicate", seat, before, after, other)
		}
	}
}

func TestMirror(t *testing.T) {
	a := game.TeamA
	d := game.DealResult{
		Winner:         &a,
		Reason:         game.ReasonThreeTens,
		Tallies:        [2]game.Tally{{Tricks: 8, Tens: 3}, {Tricks: 5, Tens: 1}},
		PreviousDealer: 1,
		NextDealer:     2,
	}
	m := Mirror(d)
	if *m.Winner != game.TeamB {
		t.Errorf("Expected Team B to win the mirrored deal, got %s", m.Winner)
	}
	if m.Tallies[game.TeamB].Tens != 3 || m.Tallies[game.TeamA].Tricks != 5 {
		t.Errorf("Tallies not swapped: %+v", m.Tallies)
	}
	if m.PreviousDealer != 1 || m.NextDealer != 2 {
		t.Errorf("Expected dealers to stay P2 and P3, got %s and %s", m.PreviousDealer, m.NextDealer)
	}
	if *d.Winner != game.TeamA {
		t.Error("Mirror must not modify the original winner")
	}
}

func TestPrintSummary(t *testing.T) {
	cfg := Config{Matches: 2, TeamA: bot.High, TeamB: bot.Low, Seed: 3, Logger: quietLogger()}
	stats, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	var buf bytes.Buffer
	PrintSummary(&buf, stats, cfg)
	for _, want := range []string{"FINAL RESULTS: high vs low", "Team A (high)", "TENS MARGIN"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("Summary missing %q:\n%s", want, buf.String())
		}
	}
}
