package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lox/mendikot/internal/bot"
	"github.com/lox/mendikot/internal/config"
	"github.com/lox/mendikot/internal/display"
	"github.com/lox/mendikot/internal/game"
	"github.com/lox/mendikot/internal/match"
	"github.com/lox/mendikot/internal/randutil"
)

// PlayCmd plays an interactive match on the terminal
type PlayCmd struct {
	Deals      *int   `help:"Number of deals (0 plays until interrupted)"`
	Difficulty string `help:"Bot difficulty: low, medium, high"`
	Variant    string `help:"Trump reveal variant: auto or optional"`
	Seed       *int64 `help:"Deterministic RNG seed (optional)"`
	Fast       bool   `help:"Skip bot thinking and trick pauses"`
	Watch      bool   `help:"Let a bot take the human seat"`
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(g *Globals, apply func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", g.Config, err)
	}
	return cfg, nil
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, func(cfg *config.Config) {
		if c.Deals != nil {
			cfg.SetDeals(*c.Deals)
		}
		if c.Difficulty != "" {
			cfg.Game.Difficulty = c.Difficulty
		}
		if c.Variant != "" {
			cfg.Game.Variant = c.Variant
		}
		if c.Seed != nil {
			cfg.Game.Seed = *c.Seed
		}
		if c.Watch {
			for i := range cfg.Seats {
				cfg.Seats[i].Human = false
			}
		}
	})
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel())
	variant, _ := cfg.Variant()
	seed := randutil.Resolve(cfg.Game.Seed)
	names := cfg.SeatNames()
	human, hasHuman := cfg.HumanSeat()
	logger.Debug("Starting match", "seed", seed, "variant", variant, "difficulty", cfg.Game.Difficulty)

	out := display.New(os.Stdout, g.NoColor)
	out.SetPlayers(names, human)
	prompter := display.NewPrompter(out, os.Stdin)
	defer prompter.Close()

	engine := game.NewEngine(randutil.New(seed),
		game.WithVariant(variant),
		game.WithLogger(logger),
		game.WithPlayerNames(names[:]...),
	)

	var agents [game.NumSeats]match.Agent
	for i := range agents {
		seat := game.Seat(i)
		if hasHuman && seat == human {
			agents[i] = match.NewHumanAgent(prompter.Prompt)
			continue
		}
		policy := bot.NewPolicy(randutil.New(randutil.Derive(seed, i+1)), logger)
		agents[i] = match.NewBotAgent(policy, cfg.SeatDifficulty(seat))
	}

	opts := []match.Option{
		match.WithDeals(cfg.Deals()),
		match.WithLogger(logger),
		match.OnResult(out.Result),
		match.OnMessage(func(_ game.Seat, msg string) { prompter.Message(msg) }),
	}
	if !c.Fast {
		opts = append(opts, match.WithPacing(cfg.Think(), cfg.TrickHold()))
	}
	runner := match.NewRunner(engine, agents, opts...)

	summary, err := runner.Run(setupSignalHandler(logger))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println(out.Score(summary.Score, summary.Draws))
	if summary.Aborted > 0 {
		fmt.Println(out.Error(fmt.Sprintf("%d deal(s) aborted", summary.Aborted)))
	}
	return nil
}
