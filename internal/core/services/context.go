package services

import (
	"fmt"
	"strings"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// Context assembly defaults.
const (
	// DefaultHistoryWindow is how many recent conversation turns are
	// kept in the prompt.
	DefaultHistoryWindow = 6

	// DefaultContextBudget bounds the assembled prompt size in
	// characters.
	DefaultContextBudget = 12000
)

// AssemblyConfig tunes prompt assembly.
type AssemblyConfig struct {
	// HistoryWindow is the maximum number of recent turns included.
	HistoryWindow int

	// Budget is the character budget for the whole assembled prompt.
	Budget int
}

// withDefaults fills unset fields.
func (c AssemblyConfig) withDefaults() AssemblyConfig {
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = DefaultHistoryWindow
	}
	if c.Budget <= 0 {
		c.Budget = DefaultContextBudget
	}
	return c
}

// AssembleContext builds the generation prompt from system
// instructions, retrieved passages, a sliding window of recent
// conversation turns and the current question. It is a pure function
// of its inputs.
//
// When the combined size exceeds the budget, the oldest history turns
// are dropped first, then the lowest-ranked passages. The system
// instructions and the current question are never dropped.
func AssembleContext(
	systemInstructions string,
	passages []domain.Passage,
	history []domain.ConversationTurn,
	question string,
	cfg AssemblyConfig,
) string {
	cfg = cfg.withDefaults()

	// Sliding window: only the most recent turns are candidates.
	if len(history) > cfg.HistoryWindow {
		history = history[len(history)-cfg.HistoryWindow:]
	}

	for {
		prompt := renderPrompt(systemInstructions, passages, history, question)
		if len(prompt) <= cfg.Budget || (len(history) == 0 && len(passages) == 0) {
			return prompt
		}
		// Shedding order: oldest history first, then weakest passages.
		switch {
		case len(history) > 0:
			history = history[1:]
		case len(passages) > 0:
			passages = passages[:len(passages)-1]
		}
	}
}

// renderPrompt lays the sections out in a stable order.
func renderPrompt(
	system string,
	passages []domain.Passage,
	history []domain.ConversationTurn,
	question string,
) string {
	var b strings.Builder

	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}

	if len(passages) > 0 {
		b.WriteString("# Study material\n")
		for i, p := range passages {
			if i > 0 {
				b.WriteString("\n---\n\n")
			}
			fmt.Fprintf(&b, "[Source %d: %s]\n%s\n", i+1, p.DocumentName, p.Text)
		}
		b.WriteString("\n")
	}

	if len(history) > 0 {
		b.WriteString("# Conversation so far\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("# Question\n")
	b.WriteString(question)
	return b.String()
}
