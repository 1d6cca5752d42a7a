// Package config loads the HCL configuration for the mendikot CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/mendikot/internal/bot"
	"github.com/lox/mendikot/internal/game"
)

// Config represents the complete configuration file
type Config struct {
	Game   *GameSettings   `hcl:"game,block"`
	Pacing *PacingSettings `hcl:"pacing,block"`
	Log    *LogSettings    `hcl:"log,block"`
	Seats  []SeatConfig    `hcl:"seat,block"`
}

// GameSettings contains match-level configuration
type GameSettings struct {
	Variant    string `hcl:"variant,optional"`
	Difficulty string `hcl:"difficulty,optional"`
	Deals      *int   `hcl:"deals,optional"` // 0 plays until interrupted
	Seed       int64  `hcl:"seed,optional"`  // 0 is time-seeded
}

// PacingSettings controls how fast bots play for a human watching
type PacingSettings struct {
	Think     string `hcl:"think,optional"`
	TrickHold string `hcl:"trick_hold,optional"`
}

// LogSettings controls logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

// SeatConfig overrides one seat, labelled P1 to P4
type SeatConfig struct {
	Label      string `hcl:"label,label"`
	Name       string `hcl:"name,optional"`
	Human      bool   `hcl:"human,optional"`
	Difficulty string `hcl:"difficulty,optional"`
}

const (
	defaultDeals     = 10
	defaultThink     = "900ms"
	defaultTrickHold = "2500ms"
)

// Default returns the default configuration: one human at P1 against
// three medium bots.
func Default() *Config {
	c := &Config{
		Seats: []SeatConfig{{Label: "P1", Name: "You", Human: true}},
	}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.Variant == "" {
		c.Game.Variant = game.VariantAutoReveal.String()
	}
	if c.Game.Difficulty == "" {
		c.Game.Difficulty = bot.Medium.String()
	}
	if c.Game.Deals == nil {
		n := defaultDeals
		c.Game.Deals = &n
	}
	if c.Pacing == nil {
		c.Pacing = &PacingSettings{}
	}
	if c.Pacing.Think == "" {
		c.Pacing.Think = defaultThink
	}
	if c.Pacing.TrickHold == "" {
		c.Pacing.TrickHold = defaultTrickHold
	}
	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.Variant(); err != nil {
		return err
	}
	if _, err := bot.ParseDifficulty(c.Game.Difficulty); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Deals() < 0 {
		return fmt.Errorf("game: deals must not be negative, got %d", c.Deals())
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	for name, value := range map[string]string{"think": c.Pacing.Think, "trick_hold": c.Pacing.TrickHold} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("pacing: invalid %s duration %q: %w", name, value, err)
		}
		if d < 0 {
			return fmt.Errorf("pacing: %s must not be negative", name)
		}
	}

	if len(c.Seats) > game.NumSeats {
		return fmt.Errorf("at most %d seats can be configured, got %d", game.NumSeats, len(c.Seats))
	}
	seen := make(map[game.Seat]bool)
	humans := 0
	for _, s := range c.Seats {
		seat, err := ParseSeat(s.Label)
		if err != nil {
			return err
		}
		if seen[seat] {
			return fmt.Errorf("seat %s is configured twice", s.Label)
		}
		seen[seat] = true
		if s.Human {
			humans++
		}
		if s.Difficulty != "" {
			if _, err := bot.ParseDifficulty(s.Difficulty); err != nil {
				return fmt.Errorf("seat %s: %w", s.Label, err)
			}
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one human seat is supported, got %d", humans)
	}
	return nil
}

// ParseSeat parses a seat label such as "P3".
func ParseSeat(label string) (game.Seat, error) {
	for i := range game.NumSeats {
		if s := game.Seat(i); s.String() == label {
			return s, nil
		}
	}
	return game.NoSeat, fmt.Errorf("invalid seat label %q (want P1 to P4)", label)
}

// Variant returns the parsed trump reveal variant.
func (c *Config) Variant() (game.Variant, error) {
	v, err := game.ParseVariant(c.Game.Variant)
	if err != nil {
		return v, fmt.Errorf("game: %w", err)
	}
	return v, nil
}

// Deals returns the configured deal count.
func (c *Config) Deals() int {
	return *c.Game.Deals
}

// SetDeals overrides the deal count.
func (c *Config) SetDeals(n int) {
	c.Game.Deals = &n
}

// Think returns the bot think pause. Call Validate first.
func (c *Config) Think() time.Duration {
	d, _ := time.ParseDuration(c.Pacing.Think)
	return d
}

// TrickHold returns how long a completed trick stays visible. Call
// Validate first.
func (c *Config) TrickHold() time.Duration {
	d, _ := time.ParseDuration(c.Pacing.TrickHold)
	return d
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// seatConfig returns the override for seat, if any.
func (c *Config) seatConfig(seat game.Seat) (SeatConfig, bool) {
	for _, s := range c.Seats {
		if s.Label == seat.String() {
			return s, true
		}
	}
	return SeatConfig{}, false
}

// SeatDifficulty returns the difficulty for a bot seat, falling back to
// the game-wide difficulty.
func (c *Config) SeatDifficulty(seat game.Seat) bot.Difficulty {
	level := c.Game.Difficulty
	if s, ok := c.seatConfig(seat); ok && s.Difficulty != "" {
		level = s.Difficulty
	}
	d, err := bot.ParseDifficulty(level)
	if err != nil {
		return bot.Medium
	}
	return d
}

// SeatNames returns the display name for every seat.
func (c *Config) SeatNames() [game.NumSeats]string {
	var names [game.NumSeats]string
	for i := range names {
		seat := game.Seat(i)
		names[i] = seat.String()
		if s, ok := c.seatConfig(seat); ok && s.Name != "" {
			names[i] = s.Name
		}
	}
	return names
}

// HumanSeat returns the seat played by a person, if any.
func (c *Config) HumanSeat() (game.Seat, bool) {
	for _, s := range c.Seats {
		if s.Human {
			seat, err := ParseSeat(s.Label)
			return seat, err == nil
		}
	}
	return game.NoSeat, false
}
