package game

import (
	"testing"

	"github.com/lox/mendikot/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plays(t *testing.T, s string) []Play {
	t.Helper()
	cards := parseFaces(t, s)
	out := make([]Play, len(cards))
	for i, c := range cards {
		out[i] = Play{Seat: Seat(i), Card: c}
	}
	return out
}

func suit(s deck.Suit) *deck.Suit { return &s }

func TestTrickWinner(t *testing.T) {
	tests := []struct {
		name        string
		plays       string
		lead        deck.Suit
		trump       *deck.Suit
		revealIndex int
		want        int
	}{
		{name: "highest of lead suit", plays: "5H KH 2H QH", lead: deck.Hearts, revealIndex: -1, want: 1},
		{name: "off-suit ace does not win", plays: "5H AS 2H AD", lead: deck.Hearts, revealIndex: -1, want: 0},
		{name: "hidden trump counts for nothing", plays: "5H 2S 9H 3C", lead: deck.Hearts, revealIndex: -1, want: 2},
		{name: "low trump beats lead ace", plays: "AH 2S KH QH", lead: deck.Hearts, trump: suit(deck.Spades), revealIndex: -1, want: 1},
		{name: "highest trump wins", plays: "AH 2S 9S QH", lead: deck.Hearts, trump: suit(deck.Spades), revealIndex: -1, want: 2},
		{name: "trump led", plays: "4S AH 3S 2S", lead: deck.Spades, trump: suit(deck.Spades), revealIndex: -1, want: 0},
		{name: "triggering card counts as trump", plays: "2H 3S AH 2C", lead: deck.Hearts, trump: suit(deck.Spades), revealIndex: 1, want: 1},
		{name: "trump suit before reveal does not count", plays: "2H KS 3S AH", lead: deck.Hearts, trump: suit(deck.Spades), revealIndex: 2, want: 2},
		{name: "trump suit lead before reveal", plays: "KS 4S AS 2C", lead: deck.Spades, trump: suit(deck.Spades), revealIndex: 3, want: 2},
		{name: "no trump after reveal point", plays: "2H 3H 4C 9H", lead: deck.Hearts, trump: suit(deck.Clubs), revealIndex: 3, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TrickWinner(plays(t, tt.plays), tt.lead, tt.trump, tt.revealIndex)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty trick", func(t *testing.T) {
		_, ok := TrickWinner(nil, deck.Hearts, nil, -1)
		assert.False(t, ok)
	})
}

func TestLegalCards(t *testing.T) {
	hand := parseFaces(t, "AH 5H KS 2S 3C")

	tests := []struct {
		name      string
		lead      *deck.Suit
		trump     *deck.Suit
		mustTrump bool
		want      string
	}{
		{name: "leading", want: "AH 5H KS 2S 3C"},
		{name: "must follow", lead: suit(deck.Hearts), want: "AH 5H"},
		{name: "follow beats obligation", lead: suit(deck.Hearts), trump: suit(deck.Spades), mustTrump: true, want: "AH 5H"},
		{name: "void without obligation", lead: suit(deck.Diamonds), trump: suit(deck.Spades), want: "AH 5H KS 2S 3C"},
		{name: "void with obligation", lead: suit(deck.Diamonds), trump: suit(deck.Spades), mustTrump: true, want: "KS 2S"},
		{name: "obligation without trumps", lead: suit(deck.Diamonds), trump: suit(deck.Diamonds), mustTrump: true, want: "AH 5H KS 2S 3C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegalCards(hand, tt.lead, tt.trump, tt.mustTrump)
			assert.Equal(t, parseFaces(t, tt.want), got)
		})
	}
}

func TestScoreDeal(t *testing.T) {
	a, b := TeamA, TeamB
	tests := []struct {
		name   string
		a, b   Tally
		winner *TeamID
		reason OutcomeReason
	}{
		{name: "A mendikot", a: Tally{Tricks: 5, Tens: 4}, b: Tally{Tricks: 8}, winner: &a, reason: ReasonMendikot},
		{name: "B mendikot", a: Tally{Tricks: 9}, b: Tally{Tricks: 4, Tens: 4}, winner: &b, reason: ReasonMendikot},
		{name: "A three tens", a: Tally{Tricks: 3, Tens: 3}, b: Tally{Tricks: 10, Tens: 1}, winner: &a, reason: ReasonThreeTens},
		{name: "B three tens", a: Tally{Tricks: 10, Tens: 1}, b: Tally{Tricks: 3, Tens: 3}, winner: &b, reason: ReasonThreeTens},
		{name: "two each, A majority", a: Tally{Tricks: 7, Tens: 2}, b: Tally{Tricks: 6, Tens: 2}, winner: &a, reason: ReasonTwoTensMajority},
		{name: "two each, B majority", a: Tally{Tricks: 4, Tens: 2}, b: Tally{Tricks: 9, Tens: 2}, winner: &b, reason: ReasonTwoTensMajority},
		{name: "two each, no majority", a: Tally{Tricks: 6, Tens: 2}, b: Tally{Tricks: 6, Tens: 2}, reason: ReasonDraw},
		{name: "A more tens", a: Tally{Tricks: 2, Tens: 1}, b: Tally{Tricks: 3}, winner: &a, reason: ReasonMoreTens},
		{name: "B more tens", a: Tally{Tricks: 3}, b: Tally{Tricks: 2, Tens: 1}, winner: &b, reason: ReasonMoreTens},
		{name: "tied, A majority", a: Tally{Tricks: 7, Tens: 1}, b: Tally{Tricks: 6, Tens: 1}, winner: &a, reason: ReasonTiedTensMajority},
		{name: "tied, no majority", a: Tally{Tricks: 5}, b: Tally{Tricks: 5}, reason: ReasonDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, reason := ScoreDeal([2]Tally{tt.a, tt.b})
			assert.Equal(t, tt.reason, reason)
			if tt.winner == nil {
				assert.Nil(t, winner)
			} else {
				require.NotNil(t, winner)
				assert.Equal(t, *tt.winner, *winner)
			}
		})
	}
}

func TestScoreDealCompleteDealsNeverDrawOnTiedTens(t *testing.T) {
	// With all 13 tricks played and Tens tied 2-2 one team always holds 7.
	for tricksA := 0; tricksA <= TricksPerDeal; tricksA++ {
		winner, reason := ScoreDeal([2]Tally{{Tricks: tricksA, Tens: 2}, {Tricks: TricksPerDeal - tricksA, Tens: 2}})
		assert.Equal(t, ReasonTwoTensMajority, reason, "A took %d tricks", tricksA)
		assert.NotNil(t, winner)
	}
}

func TestIsWhitewash(t *testing.T) {
	a := TeamA
	assert.True(t, IsWhitewash([2]Tally{{Tricks: 13, Tens: 4}, {}}, &a))
	assert.False(t, IsWhitewash([2]Tally{{Tricks: 12, Tens: 4}, {Tricks: 1}}, &a))
	assert.False(t, IsWhitewash([2]Tally{{}, {Tricks: 13, Tens: 4}}, &a))
	assert.False(t, IsWhitewash([2]Tally{{Tricks: 13}, {}}, nil))
}

func TestNextDealer(t *testing.T) {
	a, b := TeamA, TeamB
	tests := []struct {
		name      string
		dealer    Seat
		winner    *TeamID
		whitewash bool
		want      Seat
	}{
		{name: "dealer team wins", dealer: 0, winner: &a, want: 1},
		{name: "dealer team wins with whitewash", dealer: 0, winner: &a, whitewash: true, want: 1},
		{name: "dealer team loses", dealer: 0, winner: &b, want: 0},
		{name: "dealer team whitewashed", dealer: 0, winner: &b, whitewash: true, want: 2},
		{name: "draw", dealer: 3, want: 3},
		{name: "wraps around", dealer: 3, winner: &b, want: 0},
		{name: "partner wraps", dealer: 3, winner: &a, whitewash: true, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextDealer(tt.dealer, tt.winner, tt.whitewash))
		})
	}
}

func TestSeat(t *testing.T) {
	assert.Equal(t, Seat(0), Seat(3).Next())
	assert.Equal(t, Seat(3), Seat(1).Partner())
	assert.Equal(t, TeamA, Seat(2).Team())
	assert.Equal(t, TeamB, Seat(3).Team())
	assert.Equal(t, "P1", Seat(0).String())
	assert.Equal(t, "none", NoSeat.String())
	assert.Equal(t, TeamB, TeamA.Other())
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("auto")
	require.NoError(t, err)
	assert.Equal(t, VariantAutoReveal, v)

	v, err = ParseVariant(" Optional ")
	require.NoError(t, err)
	assert.Equal(t, VariantOptionalReveal, v)

	_, err = ParseVariant("sometimes")
	assert.Error(t, err)
}
