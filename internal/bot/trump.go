package bot

import (
	"cmp"
	"slices"

	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/game"
)

// SelectHiddenTrump chooses the hidden trump card from hand. Medium and
// High score each suit on length and high cards and hide the Ten of the
// best suit when it is backed up, otherwise that suit's top card.
func (p *Policy) SelectHiddenTrump(hand []deck.Card, cfg Config) (deck.Card, error) {
	if len(hand) == 0 {
		return deck.Card{}, contractViolation(game.NoSeat, "asked to select trump from an empty hand")
	}
	if cfg.Difficulty == Low {
		return p.pick(hand), nil
	}

	best, bestScore := deck.Suit(0), -1
	for _, s := range deck.Suits() {
		cards := deck.OfSuit(hand, s)
		if len(cards) == 0 {
			continue
		}
		if score := suitStrength(cards); score > bestScore {
			best, bestScore = s, score
		}
	}

	cards := deck.OfSuit(hand, best)
	top := highest(cards)
	for _, c := range cards {
		if c.IsTen() && (len(cards) >= 4 || top.Rank > deck.Ten) {
			return c, nil
		}
	}
	return top, nil
}

// suitStrength scores a suit for trump: length dominates, then rank total,
// then bonuses for honours. A short unguarded Ten is a liability.
func suitStrength(cards []deck.Card) int {
	score := len(cards) * 100
	hasTen, hasHigher := false, false
	for _, c := range cards {
		score += int(c.Rank) * 2
		switch c.Rank {
		case deck.Ace:
			score += 50
		case deck.King:
			score += 40
		case deck.Queen:
			score += 30
		case deck.Ten:
			score += 60
			hasTen = true
		}
		if c.Rank > deck.Ten {
			hasHigher = true
		}
	}
	if hasTen && !hasHigher && len(cards) < 3 {
		score -= 25
	}
	return score
}

// playTrump picks a trump card. It ducks under a partner's safe trump,
// otherwise plays the lowest trump that wins. High may spend the second
// lowest winner to keep small trumps for later. Without a winning trump it
// plays the lowest trump.
func (p *Policy) playTrump(v game.View, cfg Config, mem *Memory, obligated bool, thinking *ThinkingContext) deck.Card {
	trump := *v.RevealedTrump
	trumps := deck.OfSuit(v.Legal, trump)
	if len(trumps) == 0 {
		return p.discard(v, cfg, thinking)
	}
	ts := readTrick(v)

	if ts.partnerWinning && ts.winnerIsTrump && !obligated && cfg.Difficulty != High && !mem.HigherOutstanding(ts.card) {
		c := lowest(trumps)
		thinking.AddThoughtf("Partner's %s cannot be overtrumped, playing low %s", ts.card, c)
		return c
	}

	var winners []deck.Card
	for _, c := range trumps {
		if ts.wins(c) {
			winners = append(winners, c)
		}
	}
	if len(winners) == 0 {
		c := lowest(trumps)
		thinking.AddThoughtf("No trump wins, playing lowest trump %s", c)
		return c
	}

	slices.SortFunc(winners, func(a, b deck.Card) int { return cmp.Compare(a.Rank, b.Rank) })
	conserve := cfg.Difficulty == High &&
		len(winners) > 1 &&
		v.RemainingTricks > 3 &&
		(!ts.winnerIsTrump || ts.card.Rank < deck.Jack) &&
		!ts.opponentTen
	if conserve && winners[0].Rank < deck.Nine {
		thinking.AddThoughtf("Keeping %s back, winning with %s", winners[0], winners[1])
		return winners[1]
	}
	thinking.AddThoughtf("Winning with lowest sufficient trump %s", winners[0])
	return winners[0]
}

// canWinWithTrump reports whether any legal trump would take the trick.
func canWinWithTrump(v game.View, ts trickState) bool {
	if v.RevealedTrump == nil {
		return false
	}
	for _, c := range deck.OfSuit(v.Legal, *v.RevealedTrump) {
		if ts.wins(c) {
			return true
		}
	}
	return false
}
