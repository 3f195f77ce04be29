package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yui-chat/yui-go/pkg/relationship"
)

func seedFacts(m *Manager, texts ...string) {
	for _, text := range texts {
		m.pools.UserFacts = append(m.pools.UserFacts, UserFact{Text: text, Timestamp: time.Unix(1700000000, 0)})
	}
}

func TestRecallMatchesKeywords(t *testing.T) {
	m := newTestManager()
	seedFacts(m,
		"i love pizza and pasta",
		"i work at a bakery",
		"my cat is named mochi",
	)

	relevant := m.Recall("pizza")

	require.Len(t, relevant.UserFacts, 1)
	assert.Contains(t, relevant.UserFacts[0].Text, "pizza")

	assert.Empty(t, m.Recall("").UserFacts)
	assert.Empty(t, m.Recall("submarines").UserFacts)
}

func TestRecallRanksAndCapsResults(t *testing.T) {
	m := newTestManager()
	seedFacts(m,
		"i play guitar",
		"i listen to music on the train",
		"i write music for guitar",
		"i sold my old guitar",
	)

	relevant := m.Recall("guitar music")

	require.Len(t, relevant.UserFacts, 3)
	// The fact matching both keywords outranks single-keyword matches.
	assert.Equal(t, "i write music for guitar", relevant.UserFacts[0].Text)
}

func TestRecapRendersMemoriesAndInsights(t *testing.T) {
	m := newTestManager()
	state := relationship.DefaultState()
	seedFacts(m, "i love pizza more than anything")

	g := m.pools.KnowledgeGraph
	g.AddNode("user", "user", "person")
	g.AddNode("pizza", "pizza", "food")
	g.AddEdge("user", "pizza", "has_favorite_food")
	g.AddEdge("user", "cats", "likes")
	g.AddNode("cats", "cats", "thing")

	recap := m.Recap("pizza", state)

	assert.Contains(t, recap, "Previous relevant memories:")
	assert.Contains(t, recap, "User facts: i love pizza more than anything")
	assert.Contains(t, recap, "User's favorite food is pizza.")
	assert.Contains(t, recap, "User likes cats.")
}

func TestRecapEmptyWhenNothingRelevant(t *testing.T) {
	m := newTestManager()
	state := relationship.DefaultState()
	seedFacts(m, "i love pizza")

	assert.Empty(t, m.Recap("submarines", state))
}
