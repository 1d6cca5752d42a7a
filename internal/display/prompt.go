package display

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/lox/mendikot/internal/deck"
	"github.com/lox/mendikot/internal/game"
	"github.com/lox/mendikot/internal/match"
)

const help = "Enter a card number or card (e.g. 3 or 10H), 'r' to ask for trump, 'q' to quit"

// Prompter asks a person at the terminal for actions, one line at a time.
type Prompter struct {
	display *Display
	lines   chan string
	errs    chan error
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewPrompter starts reading lines from in. Lines are read in the
// background so a prompt can be abandoned when its context is cancelled.
// Call Close to release the reader.
func NewPrompter(d *Display, in io.Reader) *Prompter {
	p := &Prompter{
		display: d,
		lines:   make(chan string),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(p.stopped)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case p.lines <- scanner.Text():
			case <-p.done:
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		p.errs <- err
	}()
	return p
}

// Close stops handing lines to prompts. The reader goroutine exits once
// its current read returns; a read blocked on in is not interrupted.
func (p *Prompter) Close() {
	p.once.Do(func() { close(p.done) })
}

// Prompt shows the view and reads until the input parses into an action.
// Parsing only checks the input is well formed; the engine decides
// legality.
func (p *Prompter) Prompt(ctx context.Context, v game.View) (game.Action, error) {
	fmt.Fprintln(p.display.out)
	fmt.Fprintln(p.display.out, p.display.Table(v))
	for {
		question := "Your play"
		switch {
		case v.SelectingTrump:
			question = "Choose the hidden trump card"
		case v.CanRequestReveal:
			question = "You cannot follow. Play a card or 'r' to reveal trump"
		case v.MustPlayTrump:
			question = "You must play a trump"
		}
		fmt.Fprintf(p.display.out, "%s> ", question)

		var line string
		select {
		case <-ctx.Done():
			return game.Action{}, ctx.Err()
		case err := <-p.errs:
			return game.Action{}, err
		case line = <-p.lines:
		}

		a, err := ParseInput(line, v)
		if errors.Is(err, match.ErrQuit) {
			return game.Action{}, err
		}
		if err != nil {
			fmt.Fprintln(p.display.out, p.display.Error(err.Error()))
			continue
		}
		return a, nil
	}
}

// Message prints a message addressed to the player.
func (p *Prompter) Message(msg string) {
	fmt.Fprintln(p.display.out, p.display.Error(msg))
}

// ParseInput turns a line of input into an action for v. A card may be
// given by its 1-based position in the hand or by rank and suit.
func ParseInput(line string, v game.View) (game.Action, error) {
	in := strings.TrimSpace(line)
	switch strings.ToLower(in) {
	case "":
		return game.Action{}, errors.New(help)
	case "q", "quit", "exit":
		return game.Action{}, match.ErrQuit
	case "?", "h", "help":
		return game.Action{}, errors.New(help)
	case "r", "reveal":
		return game.RequestTrumpReveal(), nil
	}

	var card deck.Card
	if n, err := strconv.Atoi(in); err == nil {
		if n < 1 || n > len(v.Hand) {
			return game.Action{}, fmt.Errorf("no card %d: choose 1 to %d", n, len(v.Hand))
		}
		card = v.Hand[n-1]
	} else {
		parsed, err := deck.ParseCard(in)
		if err != nil {
			return game.Action{}, fmt.Errorf("%v. %s", err, help)
		}
		i := slices.IndexFunc(v.Hand, parsed.Matches)
		if i < 0 {
			return game.Action{}, fmt.Errorf("%s is not in your hand", parsed)
		}
		card = v.Hand[i]
	}

	if v.SelectingTrump {
		return game.SelectHiddenTrump(card), nil
	}
	return game.PlayCard(card), nil
}
