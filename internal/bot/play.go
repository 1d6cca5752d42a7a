package bot

import (
	"cmp"
	"slices"

	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/game"
)

// trickState is the bot's reading of the trick in progress.
type trickState struct {
	v              game.View
	winner         game.Seat
	card           deck.Card
	winnerIsTrump  bool
	partnerWinning bool
	opponentTen    bool
	toAct          int // players still to play after this seat
}

func readTrick(v game.View) trickState {
	ts := trickState{v: v, winner: game.NoSeat, toAct: game.NumSeats - 1 - len(v.Trick)}
	idx, ok := v.Winning()
	if !ok {
		return ts
	}
	w := v.Trick[idx]
	ts.winner = w.Seat
	ts.card = w.Card
	ts.winnerIsTrump = game.CountsAsTrump(w.Card, idx, v.RevealedTrump, v.RevealIndex)
	ts.partnerWinning = v.IsPartner(w.Seat)
	for _, pl := range v.Trick {
		if pl.Card.IsTen() && !v.IsPartner(pl.Seat) {
			ts.opponentTen = true
		}
	}
	return ts
}

// wins reports whether playing c now would take the lead in the trick.
func (ts trickState) wins(c deck.Card) bool {
	if ts.v.LeadSuit == nil {
		return true
	}
	plays := append(slices.Clone(ts.v.Trick), game.Play{Seat: ts.v.Seat, Card: c})
	idx, ok := game.TrickWinner(plays, *ts.v.LeadSuit, ts.v.RevealedTrump, ts.v.RevealIndex)
	return ok && idx == len(ts.v.Trick)
}

func (p *Policy) chooseCard(v game.View, cfg Config, mem *Memory, thinking *ThinkingContext) deck.Card {
	if v.LeadSuit == nil {
		return p.lead(v, cfg, mem, thinking)
	}
	if follow := deck.OfSuit(v.Legal, *v.LeadSuit); len(follow) > 0 {
		return p.follow(v, cfg, follow, thinking)
	}

	if v.RevealedTrump != nil && deck.HasSuit(v.Legal, *v.RevealedTrump) {
		ts := readTrick(v)
		trumpIn := false
		switch {
		case !ts.partnerWinning:
			thinking.AddThoughtf("Void in %s and an opponent is winning", v.LeadSuit.Name())
			trumpIn = true
		case ts.opponentTen:
			thinking.AddThought("Opponent's Ten is in the trick")
			trumpIn = true
		case cfg.Difficulty == High && ts.card.IsTen() && ts.toAct > 0 && mem.HigherOutstanding(ts.card):
			thinking.AddThoughtf("Partner's %s is at risk, protecting it", ts.card)
			trumpIn = true
		}
		if trumpIn && canWinWithTrump(v, ts) {
			return p.playTrump(v, cfg, mem, false, thinking)
		}
	}
	return p.discard(v, cfg, thinking)
}

// lead picks the opening card of a trick.
func (p *Policy) lead(v game.View, cfg Config, mem *Memory, thinking *ThinkingContext) deck.Card {
	if cfg.Difficulty == Low {
		c := p.pick(v.Legal)
		thinking.AddThoughtf("Leading %s at random", c)
		return c
	}
	trump := v.RevealedTrump
	isTrump := func(c deck.Card) bool { return trump != nil && c.Suit == *trump }

	tenLength := 4
	if cfg.Difficulty == High {
		tenLength = 3
	}
	for _, c := range byRankDesc(v.Legal) {
		if c.IsTen() && mem.IsBoss(c) && (isTrump(c) || deck.CountSuit(v.Hand, c.Suit) >= tenLength) {
			thinking.AddThoughtf("%s is the highest %s left, cashing it", c, c.Suit.Name())
			return c
		}
	}

	var high []deck.Card
	for _, c := range v.Legal {
		if (c.Rank == deck.Ace || c.Rank == deck.King) && mem.IsBoss(c) && !isTrump(c) {
			high = append(high, c)
		}
	}
	if len(high) > 0 {
		slices.SortStableFunc(high, func(a, b deck.Card) int {
			if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
				return c
			}
			return cmp.Compare(deck.CountSuit(v.Hand, a.Suit), deck.CountSuit(v.Hand, b.Suit))
		})
		thinking.AddThoughtf("Leading winner %s", high[0])
		return high[0]
	}

	if trump != nil && cfg.Difficulty == High {
		trumps := deck.OfSuit(v.Legal, *trump)
		out := max(mem.UnplayedInSuit(*trump), 1)
		if len(trumps) >= 4 || len(trumps) >= 3 && float64(len(trumps))/float64(out) > 0.4 {
			c := highest(trumps)
			thinking.AddThoughtf("Holding %d of %d trumps out, drawing with %s", len(trumps), out, c)
			return c
		}
	}

	guardLen := 1
	if cfg.Difficulty == High {
		guardLen = 2
	}
	var (
		best    deck.Card
		bestLen int
	)
	for _, s := range deck.Suits() {
		if trump != nil && s == *trump {
			continue
		}
		cards := deck.OfSuit(v.Legal, s)
		var candidates []deck.Card
		for _, c := range cards {
			if c.IsTen() && len(cards) <= guardLen && !mem.IsBoss(c) {
				continue
			}
			candidates = append(candidates, c)
		}
		if len(candidates) > 0 && len(cards) > bestLen {
			best, bestLen = highest(candidates), len(cards)
		}
	}
	if bestLen > 0 {
		thinking.AddThoughtf("Leading from my longest side suit with %s", best)
		return best
	}

	c := highest(v.Legal)
	thinking.AddThoughtf("Leading my highest card %s", c)
	return c
}

// follow picks a card of the lead suit: duck under a partner, capture with
// a Ten when it wins, otherwise win as cheaply as possible or play low.
func (p *Policy) follow(v game.View, cfg Config, cards []deck.Card, thinking *ThinkingContext) deck.Card {
	ts := readTrick(v)
	var winners []deck.Card
	for _, c := range cards {
		if ts.wins(c) {
			winners = append(winners, c)
		}
	}
	if len(winners) == 0 {
		c := lowest(cards)
		thinking.AddThoughtf("Cannot beat %s, playing low %s", ts.card, c)
		return c
	}
	if ts.partnerWinning && !ts.card.IsTen() && cfg.Difficulty != High {
		c := lowest(cards)
		thinking.AddThoughtf("Partner is winning with %s, playing low %s", ts.card, c)
		return c
	}
	for _, c := range winners {
		if c.IsTen() {
			thinking.AddThoughtf("My %s wins the trick", c)
			return c
		}
	}
	c := lowest(winners)
	thinking.AddThoughtf("Winning just enough with %s over %s", c, ts.card)
	return c
}

// discard sheds a card when the bot cannot or will not win: keep Tens,
// keep trumps, and empty the shortest suit first.
func (p *Policy) discard(v game.View, cfg Config, thinking *ThinkingContext) deck.Card {
	options := v.Legal
	if nonTens := filter(options, func(c deck.Card) bool { return !c.IsTen() }); len(nonTens) > 0 {
		options = nonTens
	}

	trump, known := deck.Suit(0), false
	if v.RevealedTrump != nil {
		trump, known = *v.RevealedTrump, true
	} else if cfg.Difficulty == High {
		trump, known = v.TrumpKnown()
	}
	if known {
		if nonTrumps := filter(options, func(c deck.Card) bool { return c.Suit != trump }); len(nonTrumps) > 0 {
			options = nonTrumps
		}
	}

	if cfg.Difficulty == Low || len(options) == 1 {
		c := p.pick(options)
		thinking.AddThoughtf("Discarding %s", c)
		return c
	}

	c := slices.MinFunc(options, func(a, b deck.Card) int {
		if c := cmp.Compare(deck.CountSuit(v.Hand, a.Suit), deck.CountSuit(v.Hand, b.Suit)); c != 0 {
			return c
		}
		return cmp.Compare(a.Rank, b.Rank)
	})
	thinking.AddThoughtf("Discarding %s from my shortest suit", c)
	return c
}

func lowest(cards []deck.Card) deck.Card {
	return slices.MinFunc(cards, func(a, b deck.Card) int { return cmp.Compare(a.Rank, b.Rank) })
}

func highest(cards []deck.Card) deck.Card {
	return slices.MaxFunc(cards, func(a, b deck.Card) int { return cmp.Compare(a.Rank, b.Rank) })
}

func byRankDesc(cards []deck.Card) []deck.Card {
	out := slices.Clone(cards)
	slices.SortStableFunc(out, func(a, b deck.Card) int { return cmp.Compare(b.Rank, a.Rank) })
	return out
}

func filter(cards []deck.Card, keep func(deck.Card) bool) []deck.Card {
	var out []deck.Card
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
