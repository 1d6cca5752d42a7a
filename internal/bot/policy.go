// Package bot implements the non-human decision policy for Mendikot. A
// Policy reads only a game.View, never engine state, and proposes one
// action per call; the engine re-validates everything it returns.
package bot

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/game"
)

// Policy decides actions for computer-controlled seats. A Policy is not
// safe for concurrent use; give each goroutine its own.
type Policy struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewPolicy creates a policy. The rng drives the Low tier and the High
// tier's reveal coin.
func NewPolicy(rng *rand.Rand, logger *log.Logger) *Policy {
	if rng == nil {
		panic("rng is required for policy creation")
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Policy{rng: rng, logger: logger.WithPrefix("bot")}
}

func contractViolation(seat game.Seat, msg string) error {
	return &game.ActionError{Kind: game.KindPolicyContractViolation, Seat: seat, Op: "decide", Msg: msg}
}

// DecideNextAction returns the next action for the view's seat. It checks,
// in order: trump selection, a reveal request, the obligatory trump, then
// a lead, follow or discard.
func (p *Policy) DecideNextAction(v game.View, cfg Config) (game.Action, error) {
	if len(v.Hand) == 0 {
		return game.Action{}, contractViolation(v.Seat, "asked to decide with an empty hand")
	}
	if v.SelectingTrump {
		c, err := p.SelectHiddenTrump(v.Hand, cfg)
		if err != nil {
			return game.Action{}, err
		}
		a := game.SelectHiddenTrump(c)
		a.Reasoning = "Chose " + c.String() + " as the hidden trump"
		return a, nil
	}
	if !v.MyTurn() {
		return game.Action{}, contractViolation(v.Seat, "asked to decide out of turn")
	}
	if len(v.Legal) == 0 {
		return game.Action{}, contractViolation(v.Seat, "no legal cards offered")
	}

	thinking := &ThinkingContext{}
	mem := NewMemory(v, cfg.Difficulty == High)

	if p.shouldRequestReveal(v, cfg, mem, thinking) {
		a := game.RequestTrumpReveal()
		a.Reasoning = thinking.GetThoughts()
		p.logger.Debug("Decision", "seat", v.Seat, "action", a, "reasoning", a.Reasoning)
		return a, nil
	}

	var c deck.Card
	if v.MustPlayTrump {
		thinking.AddThought("Cannot follow and must trump")
		c = p.playTrump(v, cfg, mem, true, thinking)
	} else {
		c = p.chooseCard(v, cfg, mem, thinking)
	}

	if deck.Index(v.Legal, c) < 0 {
		p.logger.Error("Policy chose an illegal card", "seat", v.Seat, "card", c, "legal", v.Legal, "difficulty", cfg.Difficulty)
		c = lowest(v.Legal)
		thinking.AddThoughtf("Fell back to %s", c)
	}

	a := game.PlayCard(c)
	a.Reasoning = thinking.GetThoughts()
	p.logger.Debug("Decision", "seat", v.Seat, "difficulty", cfg.Difficulty, "action", a, "reasoning", a.Reasoning)
	return a, nil
}

// shouldRequestReveal applies only in the optional-reveal variant, to a
// void player offered the choice while trump is hidden.
func (p *Policy) shouldRequestReveal(v game.View, cfg Config, mem *Memory, thinking *ThinkingContext) bool {
	if v.Variant != game.VariantOptionalReveal || v.RevealedTrump != nil || !v.HiddenTrumpSet || !v.CanRequestReveal {
		return false
	}
	if v.LeadSuit == nil || deck.HasSuit(v.Hand, *v.LeadSuit) {
		return false
	}

	switch cfg.Difficulty {
	case Low:
		if p.rng.IntN(2) == 0 {
			thinking.AddThought("Coin says reveal")
			return true
		}
		return false

	case Medium:
		for _, s := range deck.Suits() {
			cards := deck.OfSuit(v.Hand, s)
			if len(cards) >= 3 && highest(cards).Rank >= deck.Jack {
				thinking.AddThoughtf("Void in %s with %d %s headed by %s, asking for trump", v.LeadSuit.Name(), len(cards), s.Name(), highest(cards).Rank)
				return true
			}
		}
		return false
	}

	tens := mem.UnplayedTens()
	if v.OpponentTens > v.OwnTens && tens > 0 {
		thinking.AddThoughtf("Behind %d-%d on Tens with %d still out, asking for trump", v.OwnTens, v.OpponentTens, tens)
		return true
	}
	for _, s := range deck.Suits() {
		cards := deck.OfSuit(v.Hand, s)
		if len(cards) >= 4 && highest(cards).Rank >= deck.King {
			thinking.AddThoughtf("Strong %s holding, asking for trump", s.Name())
			return true
		}
	}
	if tens <= 1 && p.rng.Float64() < cfg.RevealChance {
		thinking.AddThought("Few Tens left, taking the chance on trump")
		return true
	}
	return false
}

// pick returns a uniformly random card.
func (p *Policy) pick(cards []deck.Card) deck.Card {
	return cards[p.rng.IntN(len(cards))]
}
