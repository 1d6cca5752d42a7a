package game

import (
	"slices"

	"github.com/lox/mendikot/internal/deck"
)

// Player represents a player at the table. The hand is owned by the engine.
type Player struct {
	Seat Seat
	ID   string
	Name string
	Hand []deck.Card
}

// AddCards appends cards to the hand.
func (p *Player) AddCards(cards []deck.Card) {
	p.Hand = append(p.Hand, cards...)
}

// Find resolves card against the hand. A card with an ID must match that
// instance; a card without one matches by suit and rank.
func (p *Player) Find(card deck.Card) (deck.Card, bool) {
	for _, c := range p.Hand {
		if card.ID != 0 && c.Same(card) || card.ID == 0 && c.Matches(card) {
			return c, true
		}
	}
	return deck.Card{}, false
}

// RemoveCard removes the card instance from the hand.
func (p *Player) RemoveCard(card deck.Card) bool {
	i := deck.Index(p.Hand, card)
	if i < 0 {
		return false
	}
	p.Hand = slices.Delete(p.Hand, i, i+1)
	return true
}

// HasSuit reports whether the hand holds a card of suit s.
func (p *Player) HasSuit(s deck.Suit) bool {
	return deck.HasSuit(p.Hand, s)
}

// ClearHand empties the hand.
func (p *Player) ClearHand() {
	p.Hand = p.Hand[:0]
}

// SortHand orders the hand by suit then descending rank.
func (p *Player) SortHand() {
	deck.SortHand(p.Hand)
}

func (p *Player) String() string { return p.Name }

// Team is one of the two fixed partnerships.
type Team struct {
	ID      TeamID
	Name    string
	Members [2]Seat

	TricksWon    int // this deal
	TensCaptured int // this deal
	DealsWon     int // across the match
}

// Contains reports whether seat plays for the team.
func (t *Team) Contains(seat Seat) bool {
	return t.Members[0] == seat || t.Members[1] == seat
}

// ResetDealStats clears the per-deal counters.
func (t *Team) ResetDealStats() {
	t.TricksWon = 0
	t.TensCaptured = 0
}

// Tally returns the team's per-deal counters.
func (t *Team) Tally() Tally {
	return Tally{Tricks: t.TricksWon, Tens: t.TensCaptured}
}
