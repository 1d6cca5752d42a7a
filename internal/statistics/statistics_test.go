package statistics

import (
	"errors"
	"math"
	"testing"

	"github.com/lox/mendikot/internal/game"
)

func deal(winner *game.TeamID, reason game.OutcomeReason, a, b game.Tally, dealer game.Seat) game.DealResult {
	return game.DealResult{
		Winner:         winner,
		Reason:         reason,
		Tallies:        [2]game.Tally{a, b},
		PreviousDealer: dealer,
	}
}

func team(t game.TeamID) *game.TeamID { return &t }

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.WinRate(game.TeamA) != 0 {
		t.Errorf("Expected win rate of 0 for empty stats, got %f", stats.WinRate(game.TeamA))
	}
	if lo, hi := stats.WinRateCI95(game.TeamA); lo != 0 || hi != 0 {
		t.Errorf("Expected empty interval, got [%f, %f]", lo, hi)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Empty stats should validate: %v", err)
	}
}

func TestStatistics_Add(t *testing.T) {
	stats := &Statistics{}
	results := []game.DealResult{
		deal(team(game.TeamA), game.ReasonMendikot, game.Tally{Tricks: 13, Tens: 4}, game.Tally{}, 0),
		deal(team(game.TeamB), game.ReasonThreeTens, game.Tally{Tricks: 6, Tens: 1}, game.Tally{Tricks: 7, Tens: 3}, 1),
		deal(team(game.TeamA), game.ReasonTwoTensMajority, game.Tally{Tricks: 8, Tens: 2}, game.Tally{Tricks: 5, Tens: 2}, 1),
		{Reason: game.ReasonAborted, Tallies: [2]game.Tally{{Tricks: 2, Tens: 1}, {}}, Err: errors.New("stuck")},
	}
	results[0].Whitewash = true
	for _, r := range results {
		stats.Add(r)
	}

	if stats.Deals != 4 || stats.Scored() != 3 || stats.Aborted != 1 {
		t.Fatalf("Expected 4 deals with 3 scored, got deals=%d scored=%d aborted=%d", stats.Deals, stats.Scored(), stats.Aborted)
	}
	if stats.Wins != [2]int{2, 1} {
		t.Errorf("Expected wins [2 1], got %v", stats.Wins)
	}
	if stats.Mendikots[game.TeamA] != 1 || stats.Whitewashes[game.TeamA] != 1 {
		t.Errorf("Expected one Team A mendikot and whitewash, got %d and %d", stats.Mendikots[0], stats.Whitewashes[0])
	}
	if stats.Reasons[game.ReasonAborted] != 1 || stats.Reasons[game.ReasonThreeTens] != 1 {
		t.Errorf("Unexpected reason histogram %v", stats.Reasons)
	}

	// Margins: 4, -2, 0
	if math.Abs(stats.Mean()-2.0/3.0) > 1e-9 {
		t.Errorf("Expected mean margin of 0.667, got %f", stats.Mean())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median margin of 0, got %f", stats.Median())
	}
	if math.Abs(stats.Variance()-28.0/3.0) > 1e-9 {
		t.Errorf("Expected variance of 9.333, got %f", stats.Variance())
	}
	if stats.DealerWinRate(1, game.TeamA) != 0.5 {
		t.Errorf("Expected Team A to win half the deals dealt by P2, got %f", stats.DealerWinRate(1, game.TeamA))
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestStatistics_WinRateCI(t *testing.T) {
	stats := &Statistics{}
	for i := range 100 {
		w := team(game.TeamA)
		a, b := game.Tally{Tricks: 7, Tens: 3}, game.Tally{Tricks: 6, Tens: 1}
		if i%4 == 0 {
			w = team(game.TeamB)
			a, b = b, a
		}
		stats.Add(deal(w, game.ReasonThreeTens, a, b, game.Seat(i%4)))
	}

	if stats.WinRate(game.TeamA) != 0.75 {
		t.Fatalf("Expected win rate 0.75, got %f", stats.WinRate(game.TeamA))
	}
	lo, hi := stats.WinRateCI95(game.TeamA)
	if lo >= 0.75 || hi <= 0.75 || lo < 0.65 || hi > 0.85 {
		t.Errorf("Interval [%f, %f] should bracket 0.75 tightly", lo, hi)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestStatistics_Merge(t *testing.T) {
	a, b := &Statistics{}, &Statistics{}
	a.Add(deal(team(game.TeamA), game.ReasonMoreTens, game.Tally{Tricks: 6, Tens: 3}, game.Tally{Tricks: 7, Tens: 1}, 0))
	a.AddMatch([2]int{1, 0})
	b.Add(deal(nil, game.ReasonDraw, game.Tally{Tricks: 6, Tens: 2}, game.Tally{Tricks: 7, Tens: 2}, 2))
	b.AddMatch([2]int{0, 0})

	a.Merge(b)
	if a.Deals != 2 || a.Draws != 1 || a.Matches != 2 || a.MatchesTied != 1 {
		t.Errorf("Unexpected merged counts: deals=%d draws=%d matches=%d tied=%d", a.Deals, a.Draws, a.Matches, a.MatchesTied)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Merged stats should validate: %v", err)
	}
}

func TestStatistics_ValidateDetectsMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(deal(team(game.TeamA), game.ReasonThreeTens, game.Tally{Tricks: 7, Tens: 3}, game.Tally{Tricks: 6, Tens: 1}, 0))
	stats.Wins[game.TeamB]++
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for inconsistent wins")
	}
}
