package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/gameid"
)

// Engine owns all state for a Mendikot match: hands, the current trick,
// trump state, team tallies and the dealer rotation. Every mutation goes
// through one of its action methods; each either applies fully and returns
// a Result, or rejects with an *ActionError and leaves state unchanged.
// An Engine is not safe for concurrent use.
type Engine struct {
	logger  *log.Logger
	variant Variant
	deck    *deck.Deck
	ids     *gameid.Generator

	players [NumSeats]*Player
	teams   [2]*Team

	phase      Phase
	dealNumber int
	dealID     string
	dealer     Seat
	selector   Seat
	turn       Seat

	hiddenTrump   *deck.Card
	revealedTrump *deck.Suit
	revealIndex   int  // -1 unless trump was revealed during the current trick
	trumpForced   bool // obligatory-trump rule active for the rest of the trick
	canReveal     bool // the player to act may request the reveal

	trick    []Play
	leadSuit *deck.Suit
	played   []deck.Card
	tricks   int

	lastTrick *CompletedTrick
	lastDeal  *DealResult
	status    string
	revision  uint64

	pending *Result
}

// NewEngine creates an engine in PhaseNotStarted. The RNG drives the
// shuffle unless a deck is supplied with WithDeck.
func NewEngine(rng *rand.Rand, opts ...Option) *Engine {
	if rng == nil {
		panic("rng is required for engine creation")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.deck == nil {
		cfg.deck = deck.New(rng)
	}

	e := &Engine{
		logger:      cfg.logger.WithPrefix("engine"),
		variant:     cfg.variant,
		deck:        cfg.deck,
		ids:         cfg.ids,
		dealer:      cfg.dealer,
		selector:    NoSeat,
		turn:        NoSeat,
		revealIndex: -1,
		status:      "Waiting to deal",
	}
	for i := range NumSeats {
		s := Seat(i)
		e.players[i] = &Player{Seat: s, ID: s.String(), Name: cfg.names[i], Hand: make([]deck.Card, 0, TricksPerDeal)}
	}
	e.teams[TeamA] = &Team{ID: TeamA, Name: TeamA.String(), Members: [2]Seat{0, 2}}
	e.teams[TeamB] = &Team{ID: TeamB, Name: TeamB.String(), Members: [2]Seat{1, 3}}
	return e
}

// begin starts collecting a Result for one accepted mutation.
func (e *Engine) begin() {
	e.pending = &Result{}
}

func (e *Engine) enter(p Phase) {
	e.phase = p
	if e.pending != nil {
		e.pending.Transitions = append(e.pending.Transitions, p)
	}
	e.logger.Debug("Phase", "deal", e.dealNumber, "phase", p)
}

func (e *Engine) setStatus(format string, args ...any) {
	e.status = fmt.Sprintf(format, args...)
	if e.pending != nil {
		e.pending.Message = e.status
	}
}

func (e *Engine) finish() Result {
	r := *e.pending
	e.pending = nil
	r.Phase = e.phase
	r.Turn = e.turn
	e.revision++
	return r
}

// StartNewDeal shuffles, deals 13 cards to each seat in batches of 5, 4, 4
// starting left of the dealer, and waits for the selector (the dealer's
// left) to choose the hidden trump. Starting a deal mid-play abandons the
// current one without scoring it.
func (e *Engine) StartNewDeal() (Result, error) {
	const op = "deal"
	if e.phase == PhaseGameOver {
		return Result{}, illegal(op, NoSeat, "the match is over")
	}
	if e.inDeal() {
		e.logger.Warn("Abandoning deal in progress", "deal", e.dealNumber, "phase", e.phase)
	}

	e.begin()
	e.resetDeal()
	e.dealNumber++
	e.dealID = e.ids.Generate()
	e.enter(PhaseDealing)
	e.setStatus("Deal %d: %s is dealing", e.dealNumber, e.players[e.dealer].Name)

	e.deck.Reset()
	for _, n := range dealBatches {
		seat := e.dealer.Next()
		for range NumSeats {
			e.players[seat].AddCards(e.deck.DealN(n))
			seat = seat.Next()
		}
	}
	for _, p := range e.players {
		if len(p.Hand) != TricksPerDeal {
			err := broken(op, "%s was dealt %d cards", p.Seat, len(p.Hand))
			e.abort(err)
			e.finish()
			return Result{}, err
		}
		p.SortHand()
	}

	e.selector = e.dealer.Next()
	e.turn = e.selector
	e.enter(PhaseAwaitingTrumpSelection)
	e.setStatus("%s to choose the hidden trump", e.players[e.selector].Name)
	e.logger.Info("Dealt", "deal", e.dealNumber, "id", e.dealID, "dealer", e.dealer, "selector", e.selector)
	return e.finish(), nil
}

func (e *Engine) resetDeal() {
	for _, p := range e.players {
		p.ClearHand()
	}
	for _, t := range e.teams {
		t.ResetDealStats()
	}
	e.hiddenTrump = nil
	e.revealedTrump = nil
	e.revealIndex = -1
	e.trumpForced = false
	e.canReveal = false
	e.trick = e.trick[:0]
	e.leadSuit = nil
	e.played = e.played[:0]
	e.tricks = 0
	e.lastTrick = nil
	e.lastDeal = nil
	e.selector = NoSeat
	e.turn = NoSeat
}

func (e *Engine) inDeal() bool {
	switch e.phase {
	case PhaseNotStarted, PhaseDealCompleted, PhaseGameOver:
		return false
	}
	return true
}

// SelectHiddenTrump records card, from the selector's own hand, as the
// hidden trump. The card stays in the hand and may be played later.
func (e *Engine) SelectHiddenTrump(seat Seat, card deck.Card) (Result, error) {
	const op = "select-trump"
	if e.phase != PhaseAwaitingTrumpSelection {
		return Result{}, illegal(op, seat, "not selecting trump (phase is %s)", e.phase)
	}
	if seat != e.selector {
		return Result{}, illegal(op, seat, "%s selects the trump this deal", e.selector)
	}
	held, ok := e.players[seat].Find(card)
	if !ok {
		return Result{}, illegal(op, seat, "%s is not in hand", card)
	}

	e.begin()
	e.hiddenTrump = &held
	e.turn = e.selector
	e.enter(PhaseTrumpSelectionDone)
	e.setStatus("%s has set the hidden trump; %s leads", e.players[seat].Name, e.players[seat].Name)
	e.logger.Debug("Hidden trump selected", "seat", seat, "card", held)
	return e.finish(), nil
}

// RequestTrumpReveal reveals the hidden trump for the player to act. It is
// only available in the optional-reveal variant, to a player who cannot
// follow the lead suit, while trump is still hidden.
func (e *Engine) RequestTrumpReveal(seat Seat) (Result, error) {
	const op = "reveal"
	if e.variant != VariantOptionalReveal {
		return Result{}, illegal(op, seat, "reveal requests are only allowed in the optional-reveal variant")
	}
	if e.phase != PhaseAwaitingTrumpRevealChoice || !e.canReveal {
		return Result{}, illegal(op, seat, "no reveal choice is pending (phase is %s)", e.phase)
	}
	if seat != e.turn {
		return Result{}, illegal(op, seat, "it is %s's turn", e.turn)
	}
	if e.revealedTrump != nil || e.hiddenTrump == nil {
		return Result{}, illegal(op, seat, "trump is not hidden")
	}

	e.begin()
	e.reveal(seat)
	e.enter(PhaseTrumpRevealed)
	return e.finish(), nil
}

func (e *Engine) reveal(by Seat) {
	suit := e.hiddenTrump.Suit
	e.revealedTrump = &suit
	e.revealIndex = len(e.trick)
	e.trumpForced = true
	e.canReveal = false
	e.pending.TrumpRevealed = true
	e.pending.Trump = copySuit(&suit)
	e.setStatus("Trump revealed by %s: %s", e.players[by].Name, suit.Name())
	e.logger.Info("Trump revealed", "deal", e.dealNumber, "by", by, "suit", suit.Name(), "trick", e.tricks+1)
}

// PlayCard plays card from seat's hand into the current trick. The fourth
// card resolves the trick, and the thirteenth trick scores the deal, within
// the same call; Result.Trick and Result.Deal carry what was concluded.
func (e *Engine) PlayCard(seat Seat, card deck.Card) (Result, error) {
	const op = "play"
	if !e.phase.acceptsPlay() {
		return Result{}, illegal(op, seat, "cannot play a card (phase is %s)", e.phase)
	}
	if seat != e.turn {
		return Result{}, illegal(op, seat, "it is %s's turn", e.turn)
	}
	p := e.players[seat]
	held, ok := p.Find(card)
	if !ok {
		return Result{}, illegal(op, seat, "%s is not in hand", card)
	}
	if e.leadSuit != nil && held.Suit != *e.leadSuit && p.HasSuit(*e.leadSuit) {
		return Result{}, violation(op, seat, "must follow %s", e.leadSuit.Name())
	}
	if e.mustPlayTrump(seat) && held.Suit != *e.revealedTrump {
		return Result{}, violation(op, seat, "must play trump (%s)", e.revealedTrump.Name())
	}

	e.begin()
	if e.leadSuit == nil {
		lead := held.Suit
		e.leadSuit = &lead
	} else if held.Suit != *e.leadSuit && e.revealedTrump == nil && e.hiddenTrump != nil {
		if e.variant == VariantAutoReveal {
			e.reveal(seat)
			e.enter(PhaseTrumpRevealed)
		}
	}

	p.RemoveCard(held)
	e.trick = append(e.trick, Play{Seat: seat, Card: held})
	e.canReveal = false
	e.logger.Debug("Card played", "seat", seat, "card", held, "trick", e.tricks+1, "position", len(e.trick))

	if len(e.trick) < NumSeats {
		e.advance()
		return e.finish(), nil
	}
	if err := e.concludeTrick(); err != nil {
		e.finish()
		return Result{}, err
	}
	return e.finish(), nil
}

// advance passes the turn to the next seat within a trick and opens the
// reveal window for a void player in the optional-reveal variant.
func (e *Engine) advance() {
	e.turn = e.turn.Next()
	next := e.players[e.turn]
	if e.variant == VariantOptionalReveal && e.revealedTrump == nil && e.hiddenTrump != nil && !next.HasSuit(*e.leadSuit) {
		e.canReveal = true
		e.enter(PhaseAwaitingTrumpRevealChoice)
		e.setStatus("%s cannot follow %s: play or ask for trump", next.Name, e.leadSuit.Name())
		return
	}
	e.enter(PhasePlayerTurn)
	if e.pending.Message == "" {
		e.setStatus("%s to play", next.Name)
	}
}

func (e *Engine) concludeTrick() error {
	idx, ok := TrickWinner(e.trick, *e.leadSuit, e.revealedTrump, e.revealIndex)
	if !ok {
		return e.abort(broken("trick", "trick %d has no winner", e.tricks+1))
	}
	win := e.trick[idx]
	team := e.teams[win.Seat.Team()]
	tens := CountTens(e.trick)
	team.TricksWon++
	team.TensCaptured += tens
	e.tricks++

	ct := &CompletedTrick{
		Number:      e.tricks,
		Plays:       slices.Clone(e.trick),
		LeadSuit:    *e.leadSuit,
		RevealIndex: e.revealIndex,
		Winner:      win.Seat,
		WinningCard: win.Card,
		Tens:        tens,
	}
	if e.revealedTrump != nil {
		t := *e.revealedTrump
		ct.Trump = &t
	}
	e.lastTrick = ct
	e.pending.Trick = ct.clone()

	for _, pl := range e.trick {
		e.played = append(e.played, pl.Card)
	}
	e.trick = e.trick[:0]
	e.leadSuit = nil
	e.revealIndex = -1
	e.trumpForced = false
	e.canReveal = false
	e.turn = win.Seat

	e.enter(PhaseTrickCompleted)
	e.setStatus("%s wins trick %d with %s", e.players[win.Seat].Name, ct.Number, win.Card)
	e.logger.Debug("Trick completed", "deal", e.dealNumber, "trick", ct.Number, "winner", win.Seat, "card", win.Card, "tens", tens)

	if e.tricks == TricksPerDeal {
		e.endDeal()
		return nil
	}
	e.enter(PhasePlayerTurn)
	return nil
}

func (e *Engine) endDeal() {
	tallies := e.tallies()
	winner, reason := ScoreDeal(tallies)
	whitewash := IsWhitewash(tallies, winner)
	prev := e.dealer
	e.dealer = NextDealer(prev, winner, whitewash)
	if winner != nil {
		e.teams[*winner].DealsWon++
	}

	res := &DealResult{
		Number:         e.dealNumber,
		ID:             e.dealID,
		Winner:         winner,
		Reason:         reason,
		Tallies:        tallies,
		Whitewash:      whitewash,
		PreviousDealer: prev,
		NextDealer:     e.dealer,
	}
	res.Message = describeDeal(res)
	e.lastDeal = res
	e.pending.Deal = res.clone()
	e.turn = NoSeat
	e.enter(PhaseDealCompleted)
	e.setStatus("%s", res.Message)
	e.logger.Info("Deal completed",
		"deal", e.dealNumber,
		"result", res.Message,
		"teamA", fmt.Sprintf("%d tricks/%d tens", tallies[TeamA].Tricks, tallies[TeamA].Tens),
		"teamB", fmt.Sprintf("%d tricks/%d tens", tallies[TeamB].Tricks, tallies[TeamB].Tens),
		"nextDealer", e.dealer)
}

func describeDeal(r *DealResult) string {
	if r.Err != nil {
		return fmt.Sprintf("Deal %d aborted: %v", r.Number, r.Err)
	}
	if r.Winner == nil {
		return fmt.Sprintf("Deal %d is a draw", r.Number)
	}
	t := r.Tallies[*r.Winner]
	switch {
	case r.Reason == ReasonMendikot && r.Whitewash:
		return fmt.Sprintf("%s win deal %d with Mendikot and a whitewash", r.Winner, r.Number)
	case r.Reason == ReasonMendikot:
		return fmt.Sprintf("%s win deal %d with Mendikot", r.Winner, r.Number)
	case r.Whitewash:
		return fmt.Sprintf("%s win deal %d with a whitewash", r.Winner, r.Number)
	}
	return fmt.Sprintf("%s win deal %d (%s: %d tens, %d tricks)", r.Winner, r.Number, r.Reason, t.Tens, t.Tricks)
}

// Abort ends the current deal without scoring it, for a driver that cannot
// get a legal action out of a player. The dealer does not rotate.
func (e *Engine) Abort(cause error) (Result, error) {
	if !e.inDeal() {
		return Result{}, illegal("abort", NoSeat, "no deal in progress (phase is %s)", e.phase)
	}
	e.begin()
	e.abort(cause)
	return e.finish(), nil
}

// abort moves to PhaseDealCompleted with an aborted DealResult and returns
// cause for convenience. The caller must have called begin.
func (e *Engine) abort(cause error) error {
	res := &DealResult{
		Number:         e.dealNumber,
		ID:             e.dealID,
		Reason:         ReasonAborted,
		Tallies:        e.tallies(),
		PreviousDealer: e.dealer,
		NextDealer:     e.dealer,
		Err:            cause,
	}
	res.Message = describeDeal(res)
	e.lastDeal = res
	e.pending.Deal = res.clone()
	e.turn = NoSeat
	e.enter(PhaseDealCompleted)
	e.setStatus("%s", res.Message)
	e.logger.Error("Deal aborted", "deal", e.dealNumber, "error", cause)
	return cause
}

// EndMatch moves to PhaseGameOver. No further actions are accepted.
func (e *Engine) EndMatch() Result {
	e.begin()
	e.turn = NoSeat
	e.enter(PhaseGameOver)
	e.setStatus("Match over: %s %d, %s %d", TeamA, e.teams[TeamA].DealsWon, TeamB, e.teams[TeamB].DealsWon)
	return e.finish()
}

// Apply dispatches an Action on behalf of seat.
func (e *Engine) Apply(seat Seat, a Action) (Result, error) {
	switch a.Kind {
	case ActionPlayCard:
		return e.PlayCard(seat, a.Card)
	case ActionRequestTrumpReveal:
		return e.RequestTrumpReveal(seat)
	case ActionSelectHiddenTrump:
		return e.SelectHiddenTrump(seat, a.Card)
	}
	return Result{}, illegal("apply", seat, "unknown action kind %d", a.Kind)
}

func (e *Engine) mustPlayTrump(seat Seat) bool {
	if !e.trumpForced || e.revealedTrump == nil || e.leadSuit == nil {
		return false
	}
	p := e.players[seat]
	return !p.HasSuit(*e.leadSuit) && p.HasSuit(*e.revealedTrump)
}

func (e *Engine) tallies() [2]Tally {
	return [2]Tally{e.teams[TeamA].Tally(), e.teams[TeamB].Tally()}
}
