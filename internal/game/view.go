package game

import (
	"slices"

	"github.com/lox/mendikot/internal/deck"
)

// View is what one seat can legitimately know about the deal. It is a
// snapshot: the engine never changes it after it is built.
type View struct {
	Seat     Seat
	Variant  Variant
	Phase    Phase
	Turn     Seat
	Revision uint64

	Hand  []deck.Card
	Legal []deck.Card

	// SelectingTrump is set when this seat must choose the hidden trump.
	SelectingTrump bool
	// HiddenTrump is the chosen card, visible only to the selector.
	HiddenTrump    *deck.Card
	HiddenTrumpSet bool
	RevealedTrump  *deck.Suit

	LeadSuit    *deck.Suit
	Trick       []Play
	RevealIndex int
	// Played holds every card from completed tricks this deal, without
	// instance identity.
	Played []deck.Card

	TricksPlayed    int
	RemainingTricks int
	OwnTricks       int
	OpponentTricks  int
	OwnTens         int
	OpponentTens    int

	CanRequestReveal bool
	MustPlayTrump    bool
}

// Snapshot builds the View for seat.
func (e *Engine) Snapshot(seat Seat) View {
	own, opp := e.teams[seat.Team()], e.teams[seat.Team().Other()]
	v := View{
		Seat:            seat,
		Variant:         e.variant,
		Phase:           e.phase,
		Turn:            e.turn,
		Revision:        e.revision,
		Hand:            slices.Clone(e.players[seat].Hand),
		Legal:           e.LegalCards(seat),
		SelectingTrump:  e.phase == PhaseAwaitingTrumpSelection && seat == e.selector,
		HiddenTrumpSet:  e.hiddenTrump != nil,
		RevealedTrump:   copySuit(e.revealedTrump),
		LeadSuit:        copySuit(e.leadSuit),
		Trick:           slices.Clone(e.trick),
		RevealIndex:     e.revealIndex,
		Played:          make([]deck.Card, len(e.played)),
		TricksPlayed:    e.tricks,
		RemainingTricks: TricksPerDeal - e.tricks,
		OwnTricks:       own.TricksWon,
		OpponentTricks:  opp.TricksWon,
		OwnTens:         own.TensCaptured,
		OpponentTens:    opp.TensCaptured,
	}
	for i, c := range e.played {
		v.Played[i] = c.Face()
	}
	if e.hiddenTrump != nil && seat == e.selector {
		c := *e.hiddenTrump
		v.HiddenTrump = &c
	}
	if seat == e.turn {
		v.CanRequestReveal = e.CanRequestReveal()
		v.MustPlayTrump = e.mustPlayTrump(seat)
	}
	return v
}

// MyTurn reports whether the view's seat is expected to act.
func (v View) MyTurn() bool { return v.Seat == v.Turn && v.Seat.Valid() }

// Partner returns the view seat's partner.
func (v View) Partner() Seat { return v.Seat.Partner() }

// IsPartner reports whether s plays on the view seat's team.
func (v View) IsPartner(s Seat) bool { return s != v.Seat && s.Team() == v.Seat.Team() }

// TrumpKnown reports whether the view seat knows the trump suit, either
// because it was revealed or because this seat chose it.
func (v View) TrumpKnown() (deck.Suit, bool) {
	if v.RevealedTrump != nil {
		return *v.RevealedTrump, true
	}
	if v.HiddenTrump != nil {
		return v.HiddenTrump.Suit, true
	}
	return 0, false
}

// Seen returns every card face already out of the hands: completed tricks
// plus the current trick.
func (v View) Seen() []deck.Card {
	out := slices.Clone(v.Played)
	for _, p := range v.Trick {
		out = append(out, p.Card.Face())
	}
	return out
}

// Winning returns the index of the play currently winning the trick.
func (v View) Winning() (int, bool) {
	if v.LeadSuit == nil {
		return -1, false
	}
	return TrickWinner(v.Trick, *v.LeadSuit, v.RevealedTrump, v.RevealIndex)
}
