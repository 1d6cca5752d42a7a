package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/randutil"
	"github.com/stretchr/testify/require"
)

// triggerDeal: P2 holds twelve Hearts and the 2♠, P3 is void in Hearts and
// long in Spades, P4 holds only the A♥ in Hearts, P1 holds only Clubs.
var triggerDeal = [NumSeats]string{
	"2C 3C 4C 5C 6C 7C 8C 9C 10C JC QC KC AC",
	"2H 3H 4H 5H 6H 7H 8H 9H 10H JH QH KH 2S",
	"3S 4S 5S 6S 7S 8S 9S 10S JS QS KS AS 2D",
	"AH 3D 4D 5D 6D 7D 8D 9D 10D JD QD KD AD",
}

// forcedDeal: P3 and P4 are both void in Hearts; P4 holds Spades and must
// trump once Spades are revealed.
var forcedDeal = [NumSeats]string{
	"2C 3C 4C 5C 6C 7C 8C 9C 10C JC QC KC AH",
	"2H 3H 4H 5H 6H 7H 8H 9H 10H JH QH KH 2S",
	"3S 4S 5S 6S 7S 8S 2D 3D 4D 5D 6D 7D 8D",
	"9S 10S JS QS KS AS 9D 10D JD QD KD AD AC",
}

// suitsDeal gives every seat one complete suit.
var suitsDeal = [NumSeats]string{
	"2H 3H 4H 5H 6H 7H 8H 9H 10H JH QH KH AH",
	"2D 3D 4D 5D 6D 7D 8D 9D 10D JD QD KD AD",
	"2C 3C 4C 5C 6C 7C 8C 9C 10C JC QC KC AC",
	"2S 3S 4S 5S 6S 7S 8S 9S 10S JS QS KS AS",
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// stackDeck orders a deck so that dealing from dealer gives each seat the
// listed hand.
func stackDeck(t *testing.T, dealer Seat, hands [NumSeats]string) *deck.Deck {
	t.Helper()
	var parsed [NumSeats][]deck.Card
	for i, h := range hands {
		cards, err := deck.ParseCards(h)
		require.NoError(t, err)
		require.Len(t, cards, TricksPerDeal, "seat %d", i)
		parsed[i] = cards
	}
	var order []deck.Card
	var taken [NumSeats]int
	for _, n := range dealBatches {
		seat := dealer.Next()
		for range NumSeats {
			order = append(order, parsed[seat][taken[seat]:taken[seat]+n]...)
			taken[seat] += n
			seat = seat.Next()
		}
	}
	require.Len(t, order, deck.Size)
	return deck.NewOrdered(order)
}

func card(t *testing.T, s string) deck.Card {
	t.Helper()
	c, err := deck.ParseCard(s)
	require.NoError(t, err)
	return c
}

func newStackedEngine(t *testing.T, dealer Seat, hands [NumSeats]string, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{
		WithLogger(testLogger()),
		WithDealer(dealer),
		WithDeck(stackDeck(t, dealer, hands)),
	}, opts...)
	e := NewEngine(randutil.New(1), opts...)
	_, err := e.StartNewDeal()
	require.NoError(t, err)
	return e
}

func play(t *testing.T, e *Engine, seat Seat, c string) Result {
	t.Helper()
	res, err := e.PlayCard(seat, card(t, c))
	require.NoError(t, err, "%s plays %s", seat, c)
	require.NoError(t, e.CheckConservation())
	return res
}

func selectTrump(t *testing.T, e *Engine, c string) {
	t.Helper()
	_, err := e.SelectHiddenTrump(e.Selector(), card(t, c))
	require.NoError(t, err)
}

func faces(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, len(cards))
	for i, c := range cards {
		out[i] = c.Face()
	}
	return out
}

func parseFaces(t *testing.T, s string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(s)
	require.NoError(t, err)
	return cards
}

// firstIllegal returns a card from hand that is not in legal.
func firstIllegal(hand, legal []deck.Card) (deck.Card, bool) {
	for _, c := range hand {
		if deck.Index(legal, c) < 0 {
			return c, true
		}
	}
	return deck.Card{}, false
}
