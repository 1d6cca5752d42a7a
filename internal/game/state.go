package game

import (
	"fmt"
	"slices"

	"github.com/lox/mendikot/internal/deck"
)

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Variant returns the configured reveal variant.
func (e *Engine) Variant() Variant { return e.variant }

// Turn returns the seat expected to act, or NoSeat.
func (e *Engine) Turn() Seat { return e.turn }

// Dealer returns the current dealer. After a deal completes this is the
// dealer for the next deal.
func (e *Engine) Dealer() Seat { return e.dealer }

// Selector returns the seat choosing the hidden trump this deal.
func (e *Engine) Selector() Seat { return e.selector }

// DealNumber returns the 1-based number of the current deal.
func (e *Engine) DealNumber() int { return e.dealNumber }

// DealID returns the identifier of the current deal.
func (e *Engine) DealID() string { return e.dealID }

// Revision increases with every accepted action. Drivers use it to
// discard decisions computed against an older state.
func (e *Engine) Revision() uint64 { return e.revision }

// Status returns a human-readable description of the last change.
func (e *Engine) Status() string { return e.status }

// PlayerName returns the display name of seat.
func (e *Engine) PlayerName(seat Seat) string { return e.players[seat].Name }

// Hand returns a copy of seat's hand.
func (e *Engine) Hand(seat Seat) []deck.Card { return slices.Clone(e.players[seat].Hand) }

// Team returns a copy of the team's state.
func (e *Engine) Team(id TeamID) Team { return *e.teams[id] }

// Trick returns a copy of the plays in the current trick.
func (e *Engine) Trick() []Play { return slices.Clone(e.trick) }

// LeadSuit returns the lead suit of the current trick, or nil.
func (e *Engine) LeadSuit() *deck.Suit { return copySuit(e.leadSuit) }

// RevealedTrump returns the trump suit once revealed, or nil.
func (e *Engine) RevealedTrump() *deck.Suit { return copySuit(e.revealedTrump) }

// HiddenTrumpSet reports whether the selector has chosen a hidden trump.
func (e *Engine) HiddenTrumpSet() bool { return e.hiddenTrump != nil }

// TricksPlayed returns the number of completed tricks this deal.
func (e *Engine) TricksPlayed() int { return e.tricks }

// Played returns the cards of every completed trick this deal.
func (e *Engine) Played() []deck.Card { return slices.Clone(e.played) }

// LastTrick returns the most recently completed trick, so a driver can
// keep it on screen after the engine has cleared the table.
func (e *Engine) LastTrick() *CompletedTrick { return e.lastTrick.clone() }

// LastDeal returns the result of the most recently completed deal.
func (e *Engine) LastDeal() *DealResult { return e.lastDeal.clone() }

// CanRequestReveal reports whether the player to act may ask for trump.
func (e *Engine) CanRequestReveal() bool {
	return e.phase == PhaseAwaitingTrumpRevealChoice && e.canReveal
}

// MustPlayTrump reports whether the player to act is bound by the
// obligatory-trump rule.
func (e *Engine) MustPlayTrump() bool {
	if !e.turn.Valid() {
		return false
	}
	return e.mustPlayTrump(e.turn)
}

// LegalCards returns the cards seat may play now. It is empty when seat
// is not the player to act or no card may be played in this phase.
func (e *Engine) LegalCards(seat Seat) []deck.Card {
	if !e.phase.acceptsPlay() || seat != e.turn {
		return nil
	}
	return LegalCards(e.players[seat].Hand, e.leadSuit, e.revealedTrump, e.mustPlayTrump(seat))
}

// CheckConservation verifies that the 52 cards of the deal are each in
// exactly one place: a hand, the current trick, the played record or the
// undealt deck.
func (e *Engine) CheckConservation() error {
	if e.phase == PhaseNotStarted {
		return nil
	}
	var all []deck.Card
	for _, p := range e.players {
		all = append(all, p.Hand...)
	}
	for _, pl := range e.trick {
		all = append(all, pl.Card)
	}
	all = append(all, e.played...)
	all = append(all, e.deck.Cards()...)

	if len(all) != deck.Size {
		return broken("conservation", "found %d cards, want %d", len(all), deck.Size)
	}
	ids := make(map[deck.CardID]bool, deck.Size)
	faces := make(map[deck.Card]bool, deck.Size)
	for _, c := range all {
		if ids[c.ID] {
			return broken("conservation", "card %s (id %d) appears twice", c, c.ID)
		}
		if faces[c.Face()] {
			return broken("conservation", "two copies of %s", c)
		}
		ids[c.ID] = true
		faces[c.Face()] = true
	}
	return nil
}

func (e *Engine) String() string {
	return fmt.Sprintf("deal %d %s turn=%s tricks=%d", e.dealNumber, e.phase, e.turn, e.tricks)
}

func copySuit(s *deck.Suit) *deck.Suit {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (t *CompletedTrick) clone() *CompletedTrick {
	if t == nil {
		return nil
	}
	c := *t
	c.Plays = slices.Clone(t.Plays)
	c.Trump = copySuit(t.Trump)
	return &c
}

func (r *DealResult) clone() *DealResult {
	if r == nil {
		return nil
	}
	c := *r
	if r.Winner != nil {
		w := *r.Winner
		c.Winner = &w
	}
	return &c
}
