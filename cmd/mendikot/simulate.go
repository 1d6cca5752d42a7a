package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/mendikot/internal/bot"
	"github.com/lox/mendikot/internal/config"
	"github.com/lox/mendikot/internal/simulator"
)

// SimulateCmd runs bot-versus-bot matches and prints statistics
type SimulateCmd struct {
	Matches   int           `default:"200" help:"Number of matches to play"`
	Deals     int           `default:"1" help:"Deals per match"`
	TeamA     string        `default:"high" help:"Difficulty of Team A (P1 and P3)"`
	TeamB     string        `default:"medium" help:"Difficulty of Team B (P2 and P4)"`
	Variant   string        `help:"Trump reveal variant: auto or optional (defaults to config)"`
	Seed      int64         `default:"0" help:"RNG seed (0 for random)"`
	Workers   int           `default:"0" help:"Parallel workers (0 uses all CPUs)"`
	Timeout   time.Duration `default:"30s" help:"Per-match timeout"`
	Duplicate bool          `default:"true" negatable:"" help:"Replay each match with the teams swapped"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, func(cfg *config.Config) {
		if c.Variant != "" {
			cfg.Game.Variant = c.Variant
		}
		if g.LogLevel == "" {
			cfg.Log.Level = "warn"
		}
	})
	if err != nil {
		return err
	}
	teamA, err := bot.ParseDifficulty(c.TeamA)
	if err != nil {
		return fmt.Errorf("team A: %w", err)
	}
	teamB, err := bot.ParseDifficulty(c.TeamB)
	if err != nil {
		return fmt.Errorf("team B: %w", err)
	}
	if c.Matches <= 0 {
		return fmt.Errorf("matches must be positive, got %d", c.Matches)
	}
	variant, _ := cfg.Variant()

	logger := newLogger(cfg.LogLevel())
	simCfg := simulator.Config{
		Matches:   c.Matches,
		Deals:     c.Deals,
		TeamA:     teamA,
		TeamB:     teamB,
		Variant:   variant,
		Seed:      c.Seed,
		Timeout:   c.Timeout,
		Workers:   c.Workers,
		Duplicate: c.Duplicate,
		Logger:    logger,
	}

	start := time.Now()
	stats, err := simulator.New(simCfg).Run(setupSignalHandler(logger))
	if err != nil {
		return err
	}
	simulator.PrintSummary(os.Stdout, stats, simCfg)
	elapsed := time.Since(start)
	fmt.Printf("\nCompleted %d deals in %v (%.0f deals/sec)\n", stats.Deals, elapsed.Round(time.Millisecond),
		float64(stats.Deals)/elapsed.Seconds())
	if stats.Aborted > 0 {
		logger.Warn("Some deals were aborted", "count", stats.Aborted)
	}
	return nil
}
