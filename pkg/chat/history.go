// Package chat orchestrates the conversation loop: short-term history with
// semantic compression, the turn pipeline, and proactive initiatives.
package chat

import (
	"github.com/yui-chat/yui-go/pkg/helpers"
)

// Role identifies the speaker of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleCharacter Role = "model"
)

// Turn is one message of the short-term conversation history.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// History is the bounded short-term conversation memory.
type History struct {
	turns    []Turn
	maxTurns int
}

// NewHistory builds a History capped at maxTurns.
func NewHistory(turns []Turn, maxTurns int) *History {
	if turns == nil {
		turns = []Turn{}
	}
	return &History{turns: turns, maxTurns: maxTurns}
}

// Append adds a turn, evicting the oldest when over the cap.
func (h *History) Append(turn Turn) {
	h.turns = append(h.turns, turn)
	if len(h.turns) > h.maxTurns {
		h.turns = h.turns[1:]
	}
}

func (h *History) Len() int      { return len(h.turns) }
func (h *History) Turns() []Turn { return h.turns }

// LastN returns the most recent n turns.
func (h *History) LastN(n int) []Turn {
	return helpers.SafeLastN(h.turns, n)
}

// Texts returns every turn's text in order, for mention scanning.
func (h *History) Texts() []string {
	texts := make([]string, len(h.turns))
	for i, t := range h.turns {
		texts[i] = t.Text
	}
	return texts
}

// PreviousCharacterText returns the character's latest turn, or "".
func (h *History) PreviousCharacterText() string {
	for i := len(h.turns) - 1; i >= 0; i-- {
		if h.turns[i].Role == RoleCharacter {
			return h.turns[i].Text
		}
	}
	return ""
}
