package memory

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yui-chat/yui-go/pkg/events"
	"github.com/yui-chat/yui-go/pkg/nlp"
	"github.com/yui-chat/yui-go/pkg/relationship"
)

func newTestManager() *Manager {
	logger := log.New(io.Discard)
	m := NewManager(NewPools(), nlp.NewParser(logger), events.NewEventBus(nil), logger)
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	return m
}

func TestProcessConversationExtractsUserFacts(t *testing.T) {
	m := newTestManager()
	state := relationship.DefaultState()

	m.ProcessConversation("i am a nurse and i work nights", "huh. okay.", state)
	require.Len(t, m.pools.UserFacts, 1)
	assert.Contains(t, m.pools.UserFacts[0].Text, "nurse")

	// Restating the same fact does not duplicate it.
	m.ProcessConversation("i am a nurse and i work nights", "you said that already.", state)
	assert.Len(t, m.pools.UserFacts, 1)
}

func TestProcessConversationRecordsEmotionalMoment(t *testing.T) {
	m := newTestManager()
	state := relationship.DefaultState()

	m.ProcessConversation("talking with you makes me happy", "whatever. *looks away*", state)
	assert.Len(t, m.pools.EmotionalMoments, 1)

	before := len(m.pools.EmotionalMoments)
	m.ProcessConversation("the bus was on schedule", "okay.", state)
	assert.Len(t, m.pools.EmotionalMoments, before)
}

func TestProcessConversationScoresKeyConversation(t *testing.T) {
	m := newTestManager()
	state := relationship.DefaultState()

	m.ProcessConversation("what are your plans for the weekend?", "", state)

	require.Len(t, m.pools.KeyConversations, 1)
	assert.Equal(t, 4, m.pools.KeyConversations[0].Importance)
}

func TestProcessConversationRecordsCharacterExperience(t *testing.T) {
	m := newTestManager()
	state := relationship.DefaultState()

	m.ProcessConversation("ok", "i was alone a lot as a kid", state)

	require.Len(t, m.pools.CharacterExperiences, 1)
	assert.Contains(t, m.pools.CharacterExperiences[0].Text, "alone")
}

func TestProcessConversationBuildsGraph(t *testing.T) {
	m := newTestManager()
	state := relationship.DefaultState()

	m.ProcessConversation("my favorite food is pizza and i like cats", "", state)

	g := m.pools.KnowledgeGraph
	require.NotNil(t, g.Node("user"))
	require.NotNil(t, g.Node("pizza"))
	assert.Equal(t, "food", g.Node("pizza").Type)

	edges := g.EdgesFrom("user")
	assert.Contains(t, edges, "user_has_favorite_food_pizza")
	assert.Contains(t, edges, "user_likes_cats")
}
