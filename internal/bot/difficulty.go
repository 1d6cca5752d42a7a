package bot

import (
	"fmt"
	"strings"
)

// Difficulty is the sophistication tier of the policy.
type Difficulty int

const (
	// Low plays random legal cards where the heuristics would choose.
	Low Difficulty = iota
	// Medium plays "just enough" to win and defers to a winning partner.
	Medium
	// High adds card tracking, Tens-deficit reveals and trump conservation.
	High
)

func (d Difficulty) String() string {
	switch d {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses "low", "medium" or "high" (also "easy"/"hard").
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "easy":
		return Low, nil
	case "medium", "normal":
		return Medium, nil
	case "high", "hard":
		return High, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// Config is passed with every decision so that seats can play at
// different tiers with one Policy type.
type Config struct {
	Difficulty Difficulty
	// RevealChance is the High tier's probability of asking for trump late
	// in the deal, when at most one Ten is still out.
	RevealChance float64
}

// DefaultConfig returns the configuration for tier d.
func DefaultConfig(d Difficulty) Config {
	return Config{Difficulty: d, RevealChance: 0.7}
}
