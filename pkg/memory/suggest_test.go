package memory

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yui-chat/yui-go/pkg/relationship"
)

func TestProactiveSuggestionEmptyPools(t *testing.T) {
	m := newTestManager()

	suggestion := m.ProactiveSuggestion(&relationship.Preferences{}, nil, rand.New(rand.NewSource(1)))
	assert.Nil(t, suggestion)
}

func TestProactiveSuggestionPrefersUnmentionedSubject(t *testing.T) {
	m := newTestManager()
	prefs := &relationship.Preferences{}
	prefs.SetPreference("food", "pizza")

	turns := []string{"hello", "hi", "how was your day", "fine i guess"}
	suggestion := m.ProactiveSuggestion(prefs, turns, rand.New(rand.NewSource(1)))

	require.NotNil(t, suggestion)
	assert.Equal(t, "preference", suggestion.Kind)
	assert.Equal(t, "food", suggestion.Category)
	assert.Equal(t, "pizza", suggestion.Value)
}

func TestProactiveSuggestionSkipsRecentlyMentioned(t *testing.T) {
	m := newTestManager()
	prefs := &relationship.Preferences{}
	prefs.SetPreference("food", "pizza")

	turns := []string{"hello", "i had Pizza for lunch", "nice", "yeah"}
	suggestion := m.ProactiveSuggestion(prefs, turns, rand.New(rand.NewSource(1)))

	assert.Nil(t, suggestion)
}

func TestProactiveSuggestionAllowsOldMention(t *testing.T) {
	m := newTestManager()
	prefs := &relationship.Preferences{}
	prefs.SetPreference("food", "pizza")

	turns := make([]string, 12)
	for i := range turns {
		turns[i] = "just chatting"
	}
	turns[0] = "i love pizza"

	suggestion := m.ProactiveSuggestion(prefs, turns, rand.New(rand.NewSource(1)))
	require.NotNil(t, suggestion)
	assert.Equal(t, "pizza", suggestion.Value)
}

func TestProactiveSuggestionUsesFactNeedle(t *testing.T) {
	m := newTestManager()
	m.pools.UserFacts = append(m.pools.UserFacts, UserFact{
		Text:      "i am training for a marathon next spring",
		Timestamp: time.Unix(1700000000, 0),
	})

	// The mention scan keys on the first 20 characters of the fact.
	turns := []string{"i am training for a marathon next spring, remember?"}
	assert.Nil(t, m.ProactiveSuggestion(&relationship.Preferences{}, turns, rand.New(rand.NewSource(1))))

	suggestion := m.ProactiveSuggestion(&relationship.Preferences{}, []string{"unrelated"}, rand.New(rand.NewSource(1)))
	require.NotNil(t, suggestion)
	assert.Equal(t, "fact", suggestion.Kind)
}
