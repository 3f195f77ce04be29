package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTopics(t *testing.T) {
	topics := testParser().Parse("i love pizza and music").ExtractTopics()

	assert.Contains(t, topics, "pizza")
	assert.Contains(t, topics, "music")
	assert.NotContains(t, topics, "and")
}

func TestExtractTopicsDropsStopwordsAndShortTerms(t *testing.T) {
	topics := testParser().Parse("that thing is an ox").ExtractTopics()

	assert.NotContains(t, topics, "thing")
	assert.NotContains(t, topics, "ox") // two characters or fewer
}

func TestExtractTopicsDeduplicatesOnBaseForm(t *testing.T) {
	topics := testParser().Parse("the game of games").ExtractTopics()

	count := 0
	for _, topic := range topics {
		if BaseForm(topic) == "game" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestTopicSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, TopicSimilarity(nil, []string{"music"}))
	assert.Equal(t, 1.0, TopicSimilarity([]string{"music"}, []string{"music"}))
	assert.InDelta(t, 1.0/3.0, TopicSimilarity([]string{"games", "music"}, []string{"music", "art"}), 1e-9)

	// Comparison runs on base forms, case insensitively.
	assert.Equal(t, 1.0, TopicSimilarity([]string{"Games"}, []string{"game"}))
}

func TestMergeTopics(t *testing.T) {
	merged := MergeTopics([]string{"game"}, []string{"Games", "music"})

	assert.Equal(t, []string{"game", "music"}, merged)
}

func TestBaseForm(t *testing.T) {
	assert.Equal(t, "game", BaseForm("games"))
	assert.Equal(t, "hobby", BaseForm("Hobbies"))
	assert.Equal(t, "glass", BaseForm("glass"))
	assert.Equal(t, "cat", BaseForm("cat's"))
}
