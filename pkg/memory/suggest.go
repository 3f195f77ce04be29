package memory

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/yui-chat/yui-go/pkg/relationship"
)

// Suggestion is a candidate subject for a proactive message: either a stored
// user preference or a long-term user fact worth bringing back up.
type Suggestion struct {
	Kind      string // "preference" or "fact"
	Category  string
	Value     string
	Text      string
	Timestamp time.Time

	// recency is the index of the last recent turn mentioning this subject,
	// -1 when it has not come up.
	recency int
}

// notRecent is the recency value for subjects absent from the recent window.
const notRecent = -1

// ProactiveSuggestion picks something to proactively bring up: preferences
// and facts are ranked so that subjects absent from the recent conversation
// come first, then less recently mentioned ones, with older facts breaking
// ties. Subjects mentioned within the last five turns are excluded, and the
// final pick is random among the top three so the character does not loop on
// one subject.
func (m *Manager) ProactiveSuggestion(prefs *relationship.Preferences, recentTurns []string, rng *rand.Rand) *Suggestion {
	var suggestions []Suggestion

	for _, kv := range prefs.Known() {
		suggestions = append(suggestions, Suggestion{
			Kind:     "preference",
			Category: kv[0],
			Value:    kv[1],
			recency:  lastMention(recentTurns, kv[1]),
		})
	}

	for _, fact := range m.pools.UserFacts {
		needle := fact.Text
		if len(needle) > 20 {
			needle = needle[:20]
		}
		suggestions = append(suggestions, Suggestion{
			Kind:      "fact",
			Text:      fact.Text,
			Timestamp: fact.Timestamp,
			recency:   lastMention(recentTurns, needle),
		})
	}

	if len(suggestions) == 0 {
		m.logger.Debug("no proactive suggestions available")
		return nil
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.recency == notRecent && b.recency != notRecent {
			return true
		}
		if b.recency == notRecent && a.recency != notRecent {
			return false
		}
		if a.recency != notRecent && b.recency != notRecent {
			return a.recency < b.recency
		}
		// Both unmentioned: surface the older fact first.
		if a.Kind == "fact" && b.Kind == "fact" {
			return a.Timestamp.Before(b.Timestamp)
		}
		return false
	})

	threshold := len(recentTurns) - 5
	filtered := suggestions[:0:0]
	for _, s := range suggestions {
		if s.recency == notRecent || s.recency < threshold {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		m.logger.Debug("all proactive suggestions were mentioned too recently")
		return nil
	}

	top := filtered
	if len(top) > 3 {
		top = top[:3]
	}
	chosen := top[rng.Intn(len(top))]
	m.logger.Info("chose proactive suggestion", "kind", chosen.Kind, "category", chosen.Category)
	return &chosen
}

func lastMention(turns []string, needle string) int {
	needle = strings.ToLower(needle)
	for i := len(turns) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(turns[i]), needle) {
			return i
		}
	}
	return notRecent
}
