package game

import (
	"fmt"
	"strings"

	"github.com/lox/mendikot/internal/deck"
)

// NumSeats is the fixed number of players at the table.
const NumSeats = 4

// TricksPerDeal is the number of tricks in a deal (13 cards per hand).
const TricksPerDeal = deck.Size / NumSeats

// dealBatches is the number of cards each player receives per dealing pass.
var dealBatches = []int{5, 4, 4}

// Seat identifies a player by table position, clockwise from 0.
type Seat int

// NoSeat is the zero value for "nobody".
const NoSeat Seat = -1

// Next returns the seat to the left (clockwise).
func (s Seat) Next() Seat { return (s + 1) % NumSeats }

// Partner returns the seat across the table.
func (s Seat) Partner() Seat { return (s + 2) % NumSeats }

// Team returns the team the seat belongs to. Seats 0 and 2 form Team A.
func (s Seat) Team() TeamID { return TeamID(s % 2) }

// Valid reports whether the seat is at the table.
func (s Seat) Valid() bool { return s >= 0 && s < NumSeats }

func (s Seat) String() string {
	if !s.Valid() {
		return "none"
	}
	return fmt.Sprintf("P%d", int(s)+1)
}

// TeamID identifies one of the two partnerships.
type TeamID int

const (
	TeamA TeamID = iota
	TeamB
)

// Other returns the opposing team.
func (t TeamID) Other() TeamID { return 1 - t }

func (t TeamID) String() string {
	if t == TeamA {
		return "Team A"
	}
	return "Team B"
}

// Phase represents the phase of the current deal.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseDealing
	PhaseAwaitingTrumpSelection
	PhaseTrumpSelectionDone
	PhasePlayerTurn
	PhaseAwaitingTrumpRevealChoice
	PhaseTrumpRevealed
	PhaseTrickCompleted
	PhaseDealCompleted
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseDealing:
		return "dealing"
	case PhaseAwaitingTrumpSelection:
		return "awaiting trump selection"
	case PhaseTrumpSelectionDone:
		return "trump selection done"
	case PhasePlayerTurn:
		return "player turn"
	case PhaseAwaitingTrumpRevealChoice:
		return "awaiting trump reveal choice"
	case PhaseTrumpRevealed:
		return "trump revealed"
	case PhaseTrickCompleted:
		return "trick completed"
	case PhaseDealCompleted:
		return "deal completed"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// acceptsPlay reports whether a card may be played in this phase.
func (p Phase) acceptsPlay() bool {
	switch p {
	case PhaseTrumpSelectionDone, PhasePlayerTurn, PhaseAwaitingTrumpRevealChoice, PhaseTrumpRevealed:
		return true
	}
	return false
}

// Variant selects how the hidden trump is revealed.
type Variant int

const (
	// VariantAutoReveal reveals trump as soon as someone cannot follow suit.
	VariantAutoReveal Variant = iota
	// VariantOptionalReveal lets a player who cannot follow ask for the reveal.
	VariantOptionalReveal
)

func (v Variant) String() string {
	if v == VariantOptionalReveal {
		return "optional"
	}
	return "auto"
}

// ParseVariant parses "auto"/"a" or "optional"/"b".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "a", "version_a", "auto-reveal":
		return VariantAutoReveal, nil
	case "optional", "b", "version_b", "optional-reveal":
		return VariantOptionalReveal, nil
	}
	return 0, fmt.Errorf("unknown trump reveal variant %q", s)
}

// ActionKind enumerates the actions a player can submit.
type ActionKind int

const (
	ActionPlayCard ActionKind = iota
	ActionRequestTrumpReveal
	ActionSelectHiddenTrump
)

func (k ActionKind) String() string {
	switch k {
	case ActionPlayCard:
		return "play"
	case ActionRequestTrumpReveal:
		return "reveal"
	case ActionSelectHiddenTrump:
		return "select-trump"
	default:
		return "unknown"
	}
}

// Action is one intended move. Reasoning is free text for narration.
type Action struct {
	Kind      ActionKind
	Card      deck.Card
	Reasoning string
}

// PlayCard returns an action playing c.
func PlayCard(c deck.Card) Action { return Action{Kind: ActionPlayCard, Card: c} }

// RequestTrumpReveal returns a reveal request.
func RequestTrumpReveal() Action { return Action{Kind: ActionRequestTrumpReveal} }

// SelectHiddenTrump returns an action choosing c as the hidden trump.
func SelectHiddenTrump(c deck.Card) Action { return Action{Kind: ActionSelectHiddenTrump, Card: c} }

func (a Action) String() string {
	if a.Kind == ActionRequestTrumpReveal {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Card)
}

// Play is one card in a trick.
type Play struct {
	Seat Seat
	Card deck.Card
}

// CompletedTrick records a resolved trick.
type CompletedTrick struct {
	Number      int // 1-based
	Plays       []Play
	LeadSuit    deck.Suit
	Trump       *deck.Suit
	RevealIndex int // index of the first card counted as trump when revealed mid-trick, else -1
	Winner      Seat
	WinningCard deck.Card
	Tens        int
}

// Tally is a team's haul for one deal.
type Tally struct {
	Tricks int
	Tens   int
}

// OutcomeReason explains how a deal was decided.
type OutcomeReason int

const (
	ReasonMendikot OutcomeReason = iota
	ReasonThreeTens
	ReasonTwoTensMajority
	ReasonMoreTens
	ReasonTiedTensMajority
	ReasonDraw
	ReasonAborted
)

func (r OutcomeReason) String() string {
	switch r {
	case ReasonMendikot:
		return "mendikot"
	case ReasonThreeTens:
		return "three tens"
	case ReasonTwoTensMajority:
		return "two tens each, trick majority"
	case ReasonMoreTens:
		return "more tens"
	case ReasonTiedTensMajority:
		return "tied tens, trick majority"
	case ReasonDraw:
		return "draw"
	case ReasonAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// DealResult is the scored outcome of a deal.
type DealResult struct {
	Number         int
	ID             string
	Winner         *TeamID // nil for a draw or an aborted deal
	Reason         OutcomeReason
	Tallies        [2]Tally
	Whitewash      bool
	PreviousDealer Seat
	NextDealer     Seat
	Message        string
	Err            error // set when the deal was aborted
}

// Draw reports whether nobody won the deal.
func (r DealResult) Draw() bool { return r.Winner == nil && r.Err == nil }

// Result reports what changed during one accepted engine call.
type Result struct {
	Phase         Phase
	Turn          Seat
	Transitions   []Phase
	TrumpRevealed bool
	Trump         *deck.Suit // the revealed suit, when TrumpRevealed
	Trick         *CompletedTrick
	Deal          *DealResult
	Message       string
}

// TrickCompleted reports whether the call crossed a trick boundary.
func (r Result) TrickCompleted() bool { return r.Trick != nil }

// DealCompleted reports whether the call crossed a deal boundary.
func (r Result) DealCompleted() bool { return r.Deal != nil }
