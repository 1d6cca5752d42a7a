// Package display renders Mendikot state for a terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/game"
	"github.com/muesli/termenv"
)

// Styles contains styling for game display
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Trump     lipgloss.Style
	Ten       lipgloss.Style
	Winner    lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Separator lipgloss.Style
	You       lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		SubHeader: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		CardRed: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")).
			Bold(true),
		Trump: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Underline(true),
		Ten: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Winner: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Info: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Separator: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		You: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
	}
}

// Display renders engine results and views as styled text.
type Display struct {
	out    io.Writer
	styles Styles
	names  [game.NumSeats]string
	you    game.Seat
}

// New creates a display writing to out. With noColor set, output is
// plain ASCII text with no escape sequences.
func New(out io.Writer, noColor bool) *Display {
	r := lipgloss.NewRenderer(out)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	d := &Display{out: out, styles: newStyles(r), you: game.NoSeat}
	for i := range d.names {
		d.names[i] = game.Seat(i).String()
	}
	return d
}

// SetPlayers sets seat names and which seat, if any, is the local player.
func (d *Display) SetPlayers(names [game.NumSeats]string, you game.Seat) {
	d.names = names
	d.you = you
}

// Name returns the styled name for seat.
func (d *Display) Name(s game.Seat) string {
	if !s.Valid() {
		return "-"
	}
	if s == d.you {
		return d.styles.You.Render(d.names[s])
	}
	return d.names[s]
}

// Card renders one card in its suit colour. Tens are highlighted.
func (d *Display) Card(c deck.Card) string {
	switch {
	case c.IsTen():
		return d.styles.Ten.Render(c.String())
	case c.IsRed():
		return d.styles.CardRed.Render(c.String())
	}
	return d.styles.CardBlack.Render(c.String())
}

// Cards renders cards separated by spaces.
func (d *Display) Cards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = d.Card(c)
	}
	return strings.Join(parts, " ")
}

// Hand renders a numbered hand for prompting. Cards that cannot be played
// are dimmed.
func (d *Display) Hand(v game.View) string {
	var b strings.Builder
	for i, c := range v.Hand {
		label := fmt.Sprintf("%d:%s", i+1, d.Card(c))
		if !v.SelectingTrump && v.MyTurn() && deck.Index(v.Legal, c) < 0 {
			label = d.styles.Info.Render(fmt.Sprintf("%d:%s", i+1, c))
		}
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(label)
	}
	return b.String()
}

// Trick renders the plays of a trick, marking cards that count as trump.
func (d *Display) Trick(plays []game.Play, trump *deck.Suit, revealIndex int) string {
	if len(plays) == 0 {
		return d.styles.Info.Render("(empty)")
	}
	parts := make([]string, len(plays))
	for i, p := range plays {
		card := d.Card(p.Card)
		if game.CountsAsTrump(p.Card, i, trump, revealIndex) {
			card = d.styles.Trump.Render(p.Card.String())
		}
		parts[i] = fmt.Sprintf("%s %s", d.Name(p.Seat), card)
	}
	return strings.Join(parts, d.styles.Separator.Render(" | "))
}

// Table renders the state a player sees before acting.
func (d *Display) Table(v game.View) string {
	var b strings.Builder
	trump := d.styles.Info.Render("hidden")
	switch {
	case v.RevealedTrump != nil:
		trump = d.styles.Trump.Render(v.RevealedTrump.String() + " " + v.RevealedTrump.Name())
	case v.HiddenTrump != nil:
		trump = d.styles.Info.Render("hidden (you chose " + v.HiddenTrump.String() + ")")
	case !v.HiddenTrumpSet:
		trump = d.styles.Info.Render("not chosen")
	}
	fmt.Fprintf(&b, "%s  Trick %d/%d  Trump: %s\n", d.styles.SubHeader.Render(v.Seat.Team().String()),
		min(v.TricksPlayed+1, game.TricksPerDeal), game.TricksPerDeal, trump)
	fmt.Fprintf(&b, "Tricks %d-%d  Tens %d-%d\n", v.OwnTricks, v.OpponentTricks, v.OwnTens, v.OpponentTens)
	fmt.Fprintf(&b, "Table: %s\n", d.Trick(v.Trick, v.RevealedTrump, v.RevealIndex))
	fmt.Fprintf(&b, "Hand:  %s", d.Hand(v))
	return b.String()
}

// CompletedTrick renders who took a trick.
func (d *Display) CompletedTrick(t *game.CompletedTrick) string {
	line := fmt.Sprintf("Trick %d: %s  ->  %s wins with %s", t.Number,
		d.Trick(t.Plays, t.Trump, t.RevealIndex), d.Name(t.Winner), d.Card(t.WinningCard))
	switch {
	case t.Tens == 1:
		line += d.styles.Ten.Render(" (+1 ten)")
	case t.Tens > 1:
		line += d.styles.Ten.Render(fmt.Sprintf(" (+%d tens)", t.Tens))
	}
	return line
}

// DealResult renders the outcome of a deal.
func (d *Display) DealResult(r *game.DealResult) string {
	var b strings.Builder
	b.WriteString(d.styles.Header.Render(fmt.Sprintf("Deal %d", r.Number)))
	b.WriteString("\n")
	switch {
	case r.Err != nil:
		b.WriteString(d.styles.Error.Render(r.Message))
	case r.Winner == nil:
		b.WriteString(d.styles.Info.Render(r.Message))
	default:
		b.WriteString(d.styles.Winner.Render(r.Message))
	}
	b.WriteString("\n")
	for _, t := range []game.TeamID{game.TeamA, game.TeamB} {
		fmt.Fprintf(&b, "  %s: %2d tricks, %d tens\n", t, r.Tallies[t].Tricks, r.Tallies[t].Tens)
	}
	fmt.Fprintf(&b, "  Next dealer: %s", d.Name(r.NextDealer))
	return b.String()
}

// Score renders the deals-won scoreboard.
func (d *Display) Score(score [2]int, draws int) string {
	return fmt.Sprintf("%s %d  %s %d  draws %d",
		d.styles.SubHeader.Render(game.TeamA.String()), score[game.TeamA],
		d.styles.SubHeader.Render(game.TeamB.String()), score[game.TeamB], draws)
}

// Error renders a message in the error style.
func (d *Display) Error(msg string) string {
	return d.styles.Error.Render(msg)
}

// Result writes the noteworthy parts of an engine result: reveals,
// completed tricks and completed deals.
func (d *Display) Result(r game.Result) {
	if r.TrumpRevealed && r.Trump != nil {
		fmt.Fprintln(d.out, d.styles.Trump.Render(fmt.Sprintf("Trump is %s %s!", r.Trump, r.Trump.Name())))
	}
	if r.Trick != nil {
		fmt.Fprintln(d.out, d.CompletedTrick(r.Trick))
	}
	if r.Deal != nil {
		fmt.Fprintln(d.out)
		fmt.Fprintln(d.out, d.DealResult(r.Deal))
		fmt.Fprintln(d.out)
	}
	for _, p := range r.Transitions {
		switch p {
		case game.PhaseAwaitingTrumpSelection:
			fmt.Fprintln(d.out, d.styles.Info.Render(r.Message))
		case game.PhaseGameOver:
			fmt.Fprintln(d.out, d.styles.Header.Render(r.Message))
		}
	}
}
