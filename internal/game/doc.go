// Package game implements the rules of Mendikot (also called Band Hukum),
// a four-player partnership trick-taking game in which the teams compete
// to capture the four Tens.
//
// The main type is Engine, which owns every piece of state for a match:
// the hands, the trick in progress, the hidden and revealed trump, team
// tallies and the dealer rotation. Players act only through its action
// methods, each of which either applies completely or is rejected with an
// *ActionError and no change.
//
// # Basic Usage
//
//	e := game.NewEngine(randutil.New(42), game.WithVariant(game.VariantOptionalReveal))
//	e.StartNewDeal()
//	v := e.Snapshot(e.Selector())
//	e.SelectHiddenTrump(v.Seat, v.Hand[0])
//	res, err := e.PlayCard(e.Turn(), e.LegalCards(e.Turn())[0])
//	if res.DealCompleted() {
//	    fmt.Println(res.Deal.Message)
//	}
//
// # Deterministic Testing
//
// The RNG is required so every shuffle is reproducible from a seed. For
// complete control pass a stacked deck:
//
//	d := deck.NewOrdered(cards)
//	e := game.NewEngine(randutil.New(1), game.WithDeck(d))
//
// # Trump
//
// The selector (the dealer's left) secretly chooses one card from their
// hand; its suit becomes trump once revealed. With VariantAutoReveal the
// first player unable to follow suit reveals it automatically and the card
// they play already counts as trump. With VariantOptionalReveal such a
// player may call RequestTrumpReveal before playing. After a reveal, every
// remaining player in that trick who cannot follow suit must play trump if
// they hold one.
package game
