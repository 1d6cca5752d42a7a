package bot

import (
	"fmt"
	"strings"
)

// ThinkingContext accumulates AI thoughts during decision making
type ThinkingContext struct {
	thoughts []string
}

// AddThought adds a thought to the thinking process
func (tc *ThinkingContext) AddThought(thought string) {
	tc.thoughts = append(tc.thoughts, thought)
}

// AddThoughtf adds a formatted thought.
func (tc *ThinkingContext) AddThoughtf(format string, args ...any) {
	tc.AddThought(fmt.Sprintf(format, args...))
}

// GetThoughts returns the complete stream of thoughts
func (tc *ThinkingContext) GetThoughts() string {
	if len(tc.thoughts) == 0 {
		return "No clear reasoning available"
	}
	return strings.Join(tc.thoughts, ". ")
}
