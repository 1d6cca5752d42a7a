package game

import (
	"github.com/lox/mendikot/internal/deck"
)

// CountsAsTrump reports whether the card at index i of a trick counts as
// trump. A trump revealed during the trick only promotes cards played at or
// after the reveal; revealIndex < 0 means trump was already face up when the
// trick began.
func CountsAsTrump(c deck.Card, i int, trump *deck.Suit, revealIndex int) bool {
	if trump == nil || c.Suit != *trump {
		return false
	}
	return revealIndex < 0 || i >= revealIndex
}

// TrickWinner returns the index of the winning play. The highest effective
// trump wins; otherwise the highest card of the lead suit wins.
func TrickWinner(plays []Play, lead deck.Suit, trump *deck.Suit, revealIndex int) (int, bool) {
	if len(plays) == 0 {
		return -1, false
	}

	best := -1
	for i, p := range plays {
		if !CountsAsTrump(p.Card, i, trump, revealIndex) {
			continue
		}
		if best < 0 || p.Card.Rank > plays[best].Card.Rank {
			best = i
		}
	}
	if best >= 0 {
		return best, true
	}

	for i, p := range plays {
		if p.Card.Suit != lead {
			continue
		}
		if best < 0 || p.Card.Rank > plays[best].Card.Rank {
			best = i
		}
	}
	return best, best >= 0
}

// LegalCards filters hand to the cards that may be played. With no lead
// every card is legal. A player holding the lead suit must follow it; a void
// player under the obligatory-trump rule must play trump when holding one.
func LegalCards(hand []deck.Card, lead *deck.Suit, trump *deck.Suit, mustTrump bool) []deck.Card {
	if lead == nil {
		return append([]deck.Card(nil), hand...)
	}
	if follow := deck.OfSuit(hand, *lead); len(follow) > 0 {
		return follow
	}
	if mustTrump && trump != nil {
		if trumps := deck.OfSuit(hand, *trump); len(trumps) > 0 {
			return trumps
		}
	}
	return append([]deck.Card(nil), hand...)
}

// CountTens returns how many Tens are among the plays.
func CountTens(plays []Play) int {
	n := 0
	for _, p := range plays {
		if p.Card.IsTen() {
			n++
		}
	}
	return n
}

// ScoreDeal decides a deal from the two teams' tallies, indexed by TeamID.
// The first matching rule wins: four Tens, three Tens, two Tens each
// (decided on tricks), more Tens, then tied Tens (decided on tricks).
func ScoreDeal(t [2]Tally) (*TeamID, OutcomeReason) {
	a, b := t[TeamA], t[TeamB]
	win := func(id TeamID, r OutcomeReason) (*TeamID, OutcomeReason) { return &id, r }
	byTricks := func(r OutcomeReason) (*TeamID, OutcomeReason) {
		switch {
		case a.Tricks >= 7:
			return win(TeamA, r)
		case b.Tricks >= 7:
			return win(TeamB, r)
		}
		return nil, ReasonDraw
	}

	switch {
	case a.Tens == 4:
		return win(TeamA, ReasonMendikot)
	case b.Tens == 4:
		return win(TeamB, ReasonMendikot)
	case a.Tens == 3:
		return win(TeamA, ReasonThreeTens)
	case b.Tens == 3:
		return win(TeamB, ReasonThreeTens)
	case a.Tens == 2 && b.Tens == 2:
		return byTricks(ReasonTwoTensMajority)
	case a.Tens > b.Tens:
		return win(TeamA, ReasonMoreTens)
	case b.Tens > a.Tens:
		return win(TeamB, ReasonMoreTens)
	}
	return byTricks(ReasonTiedTensMajority)
}

// IsWhitewash reports whether winner took all 13 tricks.
func IsWhitewash(t [2]Tally, winner *TeamID) bool {
	if winner == nil {
		return false
	}
	return t[*winner].Tricks == TricksPerDeal && t[winner.Other()].Tricks == 0
}

// NextDealer applies the dealer rotation. The deal passes left when the
// dealer's team wins, to the dealer's partner when the dealer's team is
// whitewashed, and otherwise stays put.
func NextDealer(dealer Seat, winner *TeamID, whitewash bool) Seat {
	switch {
	case winner == nil:
		return dealer
	case *winner == dealer.Team():
		return dealer.Next()
	case whitewash:
		return dealer.Partner()
	}
	return dealer
}
