package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/gameid"
)

// Option configures an Engine during creation.
type Option func(*engineConfig)

type engineConfig struct {
	variant Variant
	logger  *log.Logger
	names   [NumSeats]string
	dealer  Seat
	deck    *deck.Deck
	ids     *gameid.Generator
}

func defaultConfig() *engineConfig {
	return &engineConfig{
		variant: VariantAutoReveal,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		names:   [NumSeats]string{"P1", "P2", "P3", "P4"},
		dealer:  0,
		ids:     gameid.NewGenerator(nil),
	}
}

// WithVariant selects the trump reveal variant. Default: VariantAutoReveal.
func WithVariant(v Variant) Option {
	return func(c *engineConfig) { c.variant = v }
}

// WithLogger sets the logger. Default: discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPlayerNames sets seat names in seat order. Empty names keep the default.
func WithPlayerNames(names ...string) Option {
	return func(c *engineConfig) {
		if len(names) > NumSeats {
			panic("at most 4 player names")
		}
		for i, n := range names {
			if n != "" {
				c.names[i] = n
			}
		}
	}
}

// WithDealer sets the first dealer. Default: seat 0.
func WithDealer(s Seat) Option {
	return func(c *engineConfig) {
		if !s.Valid() {
			panic("dealer seat out of range")
		}
		c.dealer = s
	}
}

// WithDeck supplies the deck to deal from. Pair with deck.NewOrdered to
// stack the cards in tests.
func WithDeck(d *deck.Deck) Option {
	return func(c *engineConfig) { c.deck = d }
}

// WithIDGenerator sets the generator used for deal IDs.
func WithIDGenerator(g *gameid.Generator) Option {
	return func(c *engineConfig) {
		if g != nil {
			c.ids = g
		}
	}
}
