package deck

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Suit represents a card suit. The declaration order is the display order
// used when sorting a hand.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// NumSuits is the number of suits in a deck.
const NumSuits = 4

// Suits lists every suit in display order.
func Suits() []Suit {
	return []Suit{Hearts, Diamonds, Clubs, Spades}
}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the suit's English name.
func (s Suit) Name() string {
	switch s {
	case Spades:
		return "Spades"
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	default:
		return "Unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. The numeric value is the rank's strength.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of ranks per suit.
const NumRanks = 13

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// IsTen reports whether the rank is the scoring card.
func (r Rank) IsTen() bool { return r == Ten }

// CardID identifies one physical card instance. IDs are issued by a Deck
// in increasing order; zero means the card carries no instance identity
// (a parsed card or a suit/rank-only record).
type CardID uint32

// Card represents a playing card
type Card struct {
	ID   CardID
	Suit Suit
	Rank Rank
}

// NewCard creates a card without instance identity.
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "10♥")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsTen reports whether the card is a Ten.
func (c Card) IsTen() bool {
	return c.Rank.IsTen()
}

// IsFaceCard returns true if the card is a face card (J, Q, K)
func (c Card) IsFaceCard() bool {
	return c.Rank >= Jack && c.Rank <= King
}

// Same reports whether c and other are the same card instance.
func (c Card) Same(other Card) bool {
	return c.ID != 0 && c.ID == other.ID
}

// Matches reports whether c and other have the same suit and rank.
func (c Card) Matches(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Face returns the card stripped of its instance identity.
func (c Card) Face() Card {
	return Card{Suit: c.Suit, Rank: c.Rank}
}

// SortHand orders cards by suit, then by descending rank.
func SortHand(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		if c := cmp.Compare(a.Suit, b.Suit); c != 0 {
			return c
		}
		return cmp.Compare(b.Rank, a.Rank)
	})
}

// OfSuit returns the cards of the given suit, preserving order.
func OfSuit(cards []Card, s Suit) []Card {
	var out []Card
	for _, c := range cards {
		if c.Suit == s {
			out = append(out, c)
		}
	}
	return out
}

// HasSuit reports whether any card is of the given suit.
func HasSuit(cards []Card, s Suit) bool {
	return slices.ContainsFunc(cards, func(c Card) bool { return c.Suit == s })
}

// CountSuit counts the cards of the given suit.
func CountSuit(cards []Card, s Suit) int {
	n := 0
	for _, c := range cards {
		if c.Suit == s {
			n++
		}
	}
	return n
}

// Index returns the position of the card instance in cards, or -1.
func Index(cards []Card, card Card) int {
	return slices.IndexFunc(cards, card.Same)
}

// ParseCard parses a card such as "AS", "10h", "Td" or "Q♠".
// Parsed cards carry no instance identity.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	suit, err := parseSuit(runes[len(runes)-1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	rank, err := parseRank(strings.ToUpper(string(runes[:len(runes)-1])))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return NewCard(suit, rank), nil
}

// ParseCards parses a whitespace or comma separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func parseSuit(r rune) (Suit, error) {
	switch r {
	case 's', 'S', '♠':
		return Spades, nil
	case 'h', 'H', '♥':
		return Hearts, nil
	case 'd', 'D', '♦':
		return Diamonds, nil
	case 'c', 'C', '♣':
		return Clubs, nil
	}
	return 0, fmt.Errorf("unknown suit %q", r)
}

func parseRank(s string) (Rank, error) {
	switch s {
	case "A":
		return Ace, nil
	case "K":
		return King, nil
	case "Q":
		return Queen, nil
	case "J":
		return Jack, nil
	case "T", "10":
		return Ten, nil
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), nil
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}
