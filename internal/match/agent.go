package match

import (
	"context"
	"errors"

	"github.com/lox/mendikot/internal/bot"
	"github.com/lox/mendikot/internal/game"
)

// ErrQuit is returned by a human prompt to leave the match early.
var ErrQuit = errors.New("player quit")

// Agent is anything that can choose an action for a seat. Agents receive
// a read-only View and never touch the engine.
type Agent interface {
	Decide(ctx context.Context, v game.View) (game.Action, error)
}

// BotAgent drives a seat with the bot policy at a fixed difficulty.
type BotAgent struct {
	Policy *bot.Policy
	Config bot.Config
}

// NewBotAgent creates a bot agent using the default config for d.
func NewBotAgent(p *bot.Policy, d bot.Difficulty) *BotAgent {
	return &BotAgent{Policy: p, Config: bot.DefaultConfig(d)}
}

func (b *BotAgent) Decide(_ context.Context, v game.View) (game.Action, error) {
	return b.Policy.DecideNextAction(v, b.Config)
}

// PromptFunc asks a person for an action.
type PromptFunc func(ctx context.Context, v game.View) (game.Action, error)

// HumanAgent wraps a prompt. Rejected human actions are re-prompted
// rather than counted against a retry budget.
type HumanAgent struct {
	prompt PromptFunc
}

// NewHumanAgent creates a human agent that asks prompt for every decision.
func NewHumanAgent(prompt PromptFunc) *HumanAgent {
	if prompt == nil {
		panic("prompt is required for human agent creation")
	}
	return &HumanAgent{prompt: prompt}
}

func (h *HumanAgent) Decide(ctx context.Context, v game.View) (game.Action, error) {
	return h.prompt(ctx, v)
}

func isHuman(a Agent) bool {
	_, ok := a.(*HumanAgent)
	return ok
}
