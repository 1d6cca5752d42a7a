package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck.
const Size = NumSuits * NumRanks

// Deck represents a deck of playing cards. Every card a Deck produces has a
// unique CardID; IDs keep increasing across resets so cards from different
// deals never share an identity.
type Deck struct {
	cards  []Card
	rng    *rand.Rand
	preset []Card // fixed order used instead of shuffling
	nextID CardID
}

// New creates a full, shuffled 52-card deck. The rng is required so that
// shuffles are reproducible from a seed.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	d.Reset()
	return d
}

// NewOrdered creates a deck that deals the given suit/rank sequence, in
// order, on every Reset. It is meant for deterministic tests and replays;
// order must hold each of the 52 cards exactly once.
func NewOrdered(order []Card) *Deck {
	d := &Deck{
		cards:  make([]Card, 0, Size),
		preset: make([]Card, len(order)),
	}
	for i, c := range order {
		d.preset[i] = c.Face()
	}
	d.Reset()
	return d
}

// Reset repopulates the deck with all 52 cards under fresh identities and
// shuffles it (or restores the preset order).
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	if d.preset != nil {
		for _, c := range d.preset {
			d.cards = append(d.cards, d.issue(c.Suit, c.Rank))
		}
		return
	}
	for _, suit := range Suits() {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, d.issue(suit, rank))
		}
	}
	d.Shuffle()
}

func (d *Deck) issue(s Suit, r Rank) Card {
	d.nextID++
	return Card{ID: d.nextID, Suit: s, Rank: r}
}

// Shuffle randomizes the order of cards in the deck (Fisher-Yates).
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// DealN removes and returns the first n cards. It returns fewer than n
// cards when the deck runs out.
func (d *Deck) DealN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	if n <= 0 {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the undealt cards.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
