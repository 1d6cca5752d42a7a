package display

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/game"
	"github.com/lox/mendikot/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(t *testing.T, s string) []deck.Card {
	t.Helper()
	cs, err := deck.ParseCards(s)
	require.NoError(t, err)
	for i := range cs {
		cs[i].ID = deck.CardID(i + 1)
	}
	return cs
}

func plainDisplay() (*Display, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, true), &buf
}

func TestPlainRendering(t *testing.T) {
	d, _ := plainDisplay()
	hand := cards(t, "AS 10H 2C")

	assert.Equal(t, "A♠ 10♥ 2♣", d.Cards(hand))
	assert.NotContains(t, d.Cards(hand), "\x1b[", "no escape sequences without colour")

	d.SetPlayers([game.NumSeats]string{"You", "West", "North", "East"}, 0)
	assert.Equal(t, "West", d.Name(1))
	assert.Equal(t, "-", d.Name(game.NoSeat))
}

func TestCompletedTrick(t *testing.T) {
	d, _ := plainDisplay()
	plays := cards(t, "10H 2H 3S KH")
	spades := deck.Spades
	tr := &game.CompletedTrick{
		Number:      4,
		Plays:       []game.Play{{Seat: 0, Card: plays[0]}, {Seat: 1, Card: plays[1]}, {Seat: 2, Card: plays[2]}, {Seat: 3, Card: plays[3]}},
		LeadSuit:    deck.Hearts,
		Trump:       &spades,
		RevealIndex: 2,
		Winner:      2,
		WinningCard: plays[2],
		Tens:        1,
	}
	got := d.CompletedTrick(tr)
	assert.Contains(t, got, "Trick 4: P1 10♥ | P2 2♥ | P3 3♠ | P4 K♥")
	assert.Contains(t, got, "P3 wins with 3♠")
	assert.Contains(t, got, "(+1 ten)")
}

func TestDealResult(t *testing.T) {
	d, _ := plainDisplay()
	a := game.TeamA
	r := &game.DealResult{
		Number:     2,
		Winner:     &a,
		Reason:     game.ReasonMendikot,
		Tallies:    [2]game.Tally{{Tricks: 9, Tens: 4}, {Tricks: 4}},
		NextDealer: 1,
		Message:    "Team A win deal 2 with Mendikot",
	}
	got := d.DealResult(r)
	assert.Contains(t, got, "Deal 2")
	assert.Contains(t, got, "Team A win deal 2 with Mendikot")
	assert.Contains(t, got, "Team A:  9 tricks, 4 tens")
	assert.Contains(t, got, "Next dealer: P2")
}

func TestResultWritesEvents(t *testing.T) {
	d, buf := plainDisplay()
	clubs := deck.Clubs
	d.Result(game.Result{TrumpRevealed: true, Trump: &clubs, Message: "overwritten"})
	d.Result(game.Result{Transitions: []game.Phase{game.PhaseGameOver}, Message: "Match over: Team A 1, Team B 0"})
	assert.Contains(t, buf.String(), "Trump is ♣ Clubs!")
	assert.Contains(t, buf.String(), "Match over: Team A 1, Team B 0")
}

func TestParseInput(t *testing.T) {
	hand := cards(t, "AS 10H 2C")
	v := game.View{Seat: 0, Turn: 0, Hand: hand, Legal: hand}

	tests := []struct {
		in   string
		want game.Action
		err  string
	}{
		{in: "1", want: game.PlayCard(hand[0])},
		{in: " 10h ", want: game.PlayCard(hand[1])},
		{in: "2♣", want: game.PlayCard(hand[2])},
		{in: "r", want: game.RequestTrumpReveal()},
		{in: "4", err: "no card 4"},
		{in: "KD", err: "not in your hand"},
		{in: "play", err: "invalid card"},
		{in: "", err: "Enter a card number"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInput(tt.in, v)
			if tt.err != "" {
				assert.ErrorContains(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseInput("quit", v)
	assert.ErrorIs(t, err, match.ErrQuit)

	v.SelectingTrump = true
	got, err := ParseInput("2", v)
	require.NoError(t, err)
	assert.Equal(t, game.SelectHiddenTrump(hand[1]), got)
}

func TestPrompter(t *testing.T) {
	d, buf := plainDisplay()
	hand := cards(t, "AS 10H")
	v := game.View{Seat: 0, Turn: 0, Hand: hand, Legal: hand, RevealIndex: -1}

	p := NewPrompter(d, strings.NewReader("nonsense\n2\n"))
	a, err := p.Prompt(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, game.PlayCard(hand[1]), a)
	assert.Contains(t, buf.String(), "invalid card", "bad input is explained and re-prompted")

	_, err = p.Prompt(context.Background(), v)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompterCancelled(t *testing.T) {
	d, _ := plainDisplay()
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewPrompter(d, pr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Prompt(ctx, game.View{Hand: cards(t, "AS")})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPrompterCloseReleasesReader(t *testing.T) {
	d, _ := plainDisplay()
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewPrompter(d, pr)

	// A line nobody prompts for must not strand the reader after Close.
	go func() { _, _ = pw.Write([]byte("1\n")) }()
	p.Close()
	p.Close()

	select {
	case <-p.stopped:
	case <-time.After(time.Second):
		t.Fatal("reader goroutine still running after Close")
	}
}
