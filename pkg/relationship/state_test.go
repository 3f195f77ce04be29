package relationship

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()

	assert.Equal(t, "Yui", s.CharacterName)
	assert.Equal(t, StageStranger, s.FriendshipStage)
	assert.Zero(t, s.TrustLevel)
	assert.Zero(t, s.AffectionLevel)
	assert.Equal(t, 70.0, s.ShynessLevel)
	assert.NotNil(t, s.KeyEvents)
	assert.NotNil(t, s.SentimentHistory)
}

func TestRecordKeyEventCap(t *testing.T) {
	s := DefaultState()
	now := time.Now()

	for i := 0; i < maxKeyEvents+10; i++ {
		s.RecordKeyEvent(fmt.Sprintf("event %d", i), now)
	}

	require.Len(t, s.KeyEvents, maxKeyEvents)
	assert.Equal(t, "event 10", s.KeyEvents[0].Event)
}

func TestAppendHistoriesCaps(t *testing.T) {
	s := DefaultState()
	now := time.Now()

	for i := 0; i < maxHistoryPoints+20; i++ {
		s.appendHistories(0.1, now)
	}

	assert.Len(t, s.AffectionHistory, maxHistoryPoints)
	assert.Len(t, s.TrustHistory, maxHistoryPoints)
	assert.Len(t, s.SentimentHistory, maxSentimentHistory)
}

func TestPreferencesKnown(t *testing.T) {
	p := Preferences{}
	p.SetPreference("food", "pizza")
	p.SetPreference("games", "zelda")
	p.SetPreference("anime", "unknown")

	known := p.Known()

	// Fixed category order, with empty and "unknown" values filtered out.
	assert.Equal(t, [][2]string{{"food", "pizza"}, {"games", "zelda"}}, known)
}

func TestPreferenceLookup(t *testing.T) {
	p := Preferences{}
	assert.Nil(t, p.Preference("food"))

	p.SetPreference("food", "ramen")
	require.NotNil(t, p.Preference("food"))
	assert.Equal(t, "ramen", *p.Preference("food"))

	p.SetPreference("weather", "rainy")
	assert.Nil(t, p.Preference("weather"))
}

func TestMood(t *testing.T) {
	cases := []struct {
		affection, trust float64
		stage            Stage
		want             string
	}{
		{80, 60, StageCloseFriend, "Happy"},
		{60, 40, StageFriend, "Content"},
		{10, 10, StageStranger, "Wary"},
		{40, 45, StageEnemy, "Hostile"},
		{10, 50, StageStranger, "Annoyed"},
		{40, 45, StageFriend, "Neutral"},
	}
	for _, tc := range cases {
		s := DefaultState()
		s.AffectionLevel = tc.affection
		s.TrustLevel = tc.trust
		s.FriendshipStage = tc.stage
		assert.Equal(t, tc.want, s.Mood(), "affection=%v trust=%v stage=%v", tc.affection, tc.trust, tc.stage)
	}
}

func TestRecentSentimentBand(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, "No sentiment data", s.RecentSentimentBand())

	record := func(score float64) {
		s.SentimentHistory = nil
		for i := 0; i < 10; i++ {
			s.appendHistories(score, time.Now())
		}
	}

	record(0.5)
	assert.Equal(t, "Overwhelmingly Positive", s.RecentSentimentBand())
	record(0.2)
	assert.Equal(t, "Generally Positive", s.RecentSentimentBand())
	record(0)
	assert.Equal(t, "Neutral / Mixed", s.RecentSentimentBand())
	record(-0.2)
	assert.Equal(t, "Generally Negative", s.RecentSentimentBand())
	record(-0.5)
	assert.Equal(t, "Overwhelmingly Negative", s.RecentSentimentBand())
}
