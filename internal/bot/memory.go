package bot

import (
	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/game"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // could be in any other hand
	StatusMine                      // in the bot's hand
	StatusPlayed                    // already on the table this deal
)

// Memory is the bot's private picture of the deal, rebuilt from a View on
// every decision. Index = Suit*13 + (Rank-2).
type Memory struct {
	status [deck.Size]CardStatus
}

// NewMemory builds the card picture for v. Cards in completed tricks and
// the current trick are marked played. With trackHand the bot's own cards
// are marked too, so they no longer count as threats.
func NewMemory(v game.View, trackHand bool) *Memory {
	m := &Memory{}
	if trackHand {
		m.MarkMine(v.Hand)
	}
	m.MarkPlayed(v.Seen())
	return m
}

// MarkMine records cards held by the bot.
func (m *Memory) MarkMine(cards []deck.Card) {
	for _, c := range cards {
		m.status[cardToIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards that have been played.
func (m *Memory) MarkPlayed(cards []deck.Card) {
	for _, c := range cards {
		m.status[cardToIndex(c)] = StatusPlayed
	}
}

// Status returns what is known about c.
func (m *Memory) Status(c deck.Card) CardStatus {
	return m.status[cardToIndex(c)]
}

// IsPlayed returns true if the card is already out of the deal.
func (m *Memory) IsPlayed(c deck.Card) bool {
	return m.Status(c) == StatusPlayed
}

// IsBoss returns true if no higher card of the same suit could still be
// played against c.
func (m *Memory) IsBoss(c deck.Card) bool {
	return !m.HigherOutstanding(c)
}

// HigherOutstanding reports whether a higher card of c's suit may still be
// in another player's hand.
func (m *Memory) HigherOutstanding(c deck.Card) bool {
	for r := c.Rank + 1; r <= deck.Ace; r++ {
		if m.Status(deck.NewCard(c.Suit, r)) == StatusUnknown {
			return true
		}
	}
	return false
}

// UnplayedTens counts the Tens not yet played this deal.
func (m *Memory) UnplayedTens() int {
	n := 0
	for _, s := range deck.Suits() {
		if !m.IsPlayed(deck.NewCard(s, deck.Ten)) {
			n++
		}
	}
	return n
}

// UnplayedInSuit counts the cards of s not yet played this deal.
func (m *Memory) UnplayedInSuit(s deck.Suit) int {
	n := 0
	for r := deck.Two; r <= deck.Ace; r++ {
		if !m.IsPlayed(deck.NewCard(s, r)) {
			n++
		}
	}
	return n
}

func cardToIndex(c deck.Card) int {
	return int(c.Suit)*deck.NumRanks + int(c.Rank-deck.Two)
}
