package memory

import (
	"fmt"
	"strings"

	"github.com/yui-chat/yui-go/pkg/relationship"
)

// RelevantMemories holds the top recalled entries per pool for one topic.
type RelevantMemories struct {
	UserFacts            []UserFact
	EmotionalMoments     []EmotionalMoment
	KeyConversations     []KeyConversation
	CharacterExperiences []CharacterExperience
}

const maxRecallPerPool = 3

// Recall scores every pool entry by keyword overlap with the topic text and
// returns the top three per pool. Scoring is a whole-word containment count;
// entries with zero overlap are dropped.
func (m *Manager) Recall(topic string) RelevantMemories {
	keywords := splitKeywords(topic)
	out := RelevantMemories{}
	if len(keywords) == 0 {
		return out
	}

	type scored struct {
		index     int
		relevance int
	}
	rank := func(texts []string) []int {
		var hits []scored
		for i, text := range texts {
			lower := strings.ToLower(text)
			relevance := 0
			for _, k := range keywords {
				if strings.Contains(lower, k) {
					relevance++
				}
			}
			if relevance > 0 {
				hits = append(hits, scored{index: i, relevance: relevance})
			}
		}
		// Stable selection sort by descending relevance keeps insertion
		// order among ties.
		for i := 0; i < len(hits); i++ {
			best := i
			for j := i + 1; j < len(hits); j++ {
				if hits[j].relevance > hits[best].relevance {
					best = j
				}
			}
			hits[i], hits[best] = hits[best], hits[i]
		}
		if len(hits) > maxRecallPerPool {
			hits = hits[:maxRecallPerPool]
		}
		indices := make([]int, len(hits))
		for i, h := range hits {
			indices[i] = h.index
		}
		return indices
	}

	factTexts := make([]string, len(m.pools.UserFacts))
	for i, f := range m.pools.UserFacts {
		factTexts[i] = f.Text
	}
	for _, i := range rank(factTexts) {
		out.UserFacts = append(out.UserFacts, m.pools.UserFacts[i])
	}

	momentTexts := make([]string, len(m.pools.EmotionalMoments))
	for i, e := range m.pools.EmotionalMoments {
		momentTexts[i] = e.UserText + " " + e.CharacterText
	}
	for _, i := range rank(momentTexts) {
		out.EmotionalMoments = append(out.EmotionalMoments, m.pools.EmotionalMoments[i])
	}

	convTexts := make([]string, len(m.pools.KeyConversations))
	for i, c := range m.pools.KeyConversations {
		convTexts[i] = c.UserText + " " + c.CharacterText
	}
	for _, i := range rank(convTexts) {
		out.KeyConversations = append(out.KeyConversations, m.pools.KeyConversations[i])
	}

	expTexts := make([]string, len(m.pools.CharacterExperiences))
	for i, e := range m.pools.CharacterExperiences {
		expTexts[i] = e.Text
	}
	for _, i := range rank(expTexts) {
		out.CharacterExperiences = append(out.CharacterExperiences, m.pools.CharacterExperiences[i])
	}

	return out
}

func splitKeywords(topic string) []string {
	var keywords []string
	for _, field := range strings.Fields(strings.ToLower(topic)) {
		if field != "" {
			keywords = append(keywords, field)
		}
	}
	return keywords
}

const maxGraphInsights = 5

// Recap renders recalled memories and knowledge graph insights about the user
// into a block of system prompt text. Returns "" when nothing was relevant.
func (m *Manager) Recap(topic string, state *relationship.State) string {
	relevant := m.Recall(topic)
	var b strings.Builder
	b.WriteString("Previous relevant memories:\n")
	header := b.Len()

	if len(relevant.UserFacts) > 0 {
		texts := make([]string, len(relevant.UserFacts))
		for i, f := range relevant.UserFacts {
			texts[i] = f.Text
		}
		fmt.Fprintf(&b, "- User facts: %s\n", strings.Join(texts, "; "))
	}

	if len(relevant.EmotionalMoments) > 0 {
		texts := make([]string, len(relevant.EmotionalMoments))
		for i, e := range relevant.EmotionalMoments {
			texts[i] = fmt.Sprintf("User said %q and you responded %q", e.UserText, e.CharacterText)
		}
		fmt.Fprintf(&b, "- Emotional moments: %s\n", strings.Join(texts, "; "))
	}

	if len(relevant.KeyConversations) > 0 {
		texts := make([]string, len(relevant.KeyConversations))
		for i, c := range relevant.KeyConversations {
			texts[i] = fmt.Sprintf("You discussed %q", truncate(c.UserText, 50))
		}
		fmt.Fprintf(&b, "- Important discussions: %s\n", strings.Join(texts, "; "))
	}

	if len(relevant.CharacterExperiences) > 0 {
		texts := make([]string, len(relevant.CharacterExperiences))
		for i, e := range relevant.CharacterExperiences {
			texts[i] = fmt.Sprintf("You said %q", truncate(e.Text, 50))
		}
		fmt.Fprintf(&b, "- Your past statements: %s\n", strings.Join(texts, "; "))
	}

	if insights := m.userInsights(state); len(insights) > 0 {
		fmt.Fprintf(&b, "- Key things about the user: %s\n", strings.Join(insights, " "))
	}

	if b.Len() == header {
		return ""
	}
	return b.String()
}

// userInsights renders the knowledge graph edges rooted at the user into
// short readable sentences, capped at five.
func (m *Manager) userInsights(state *relationship.State) []string {
	userName := state.UserName
	if userName == "" {
		userName = "user"
	}
	g := m.pools.KnowledgeGraph

	var insights []string
	for _, key := range g.EdgesFrom(userName) {
		_, relation, target, ok := g.SplitEdgeKey(key)
		if !ok {
			continue
		}
		targetLabel := target
		if node := g.Node(target); node != nil {
			targetLabel = node.Label
		}
		readable := strings.ReplaceAll(relation, "_", " ")
		if cat, found := strings.CutPrefix(readable, "has favorite "); found {
			insights = append(insights, fmt.Sprintf("User's favorite %s is %s.", cat, targetLabel))
		} else {
			insights = append(insights, fmt.Sprintf("User %s %s.", readable, targetLabel))
		}
		if len(insights) == maxGraphInsights {
			break
		}
	}
	return insights
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
