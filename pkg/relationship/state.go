// Package relationship owns the companion's evolving relationship state: the
// trust/affection scalars, personality traits, friendship stage machine and
// their bounded histories.
package relationship

import (
	"time"

	"github.com/yui-chat/yui-go/pkg/helpers"
)

// Stage is the discrete relationship tier.
type Stage string

const (
	StageStranger     Stage = "Stranger"
	StageAcquaintance Stage = "Acquaintance"
	StageFriend       Stage = "Friend"
	StageCloseFriend  Stage = "Close Friend"
	StageEnemy        Stage = "Enemy"
)

const (
	maxScalar           = 100.0
	maxKeyEvents        = 50
	maxHistoryPoints    = 100
	maxSentimentHistory = 20
)

// HistoryPoint is one sample of a tracked scalar.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// SentimentPoint is one recorded sentiment score.
type SentimentPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// KeyEvent is an immutable relationship milestone.
type KeyEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Affection float64   `json:"affection"`
	Trust     float64   `json:"trust"`
	Stage     Stage     `json:"stage"`
}

// Openness holds per-topic willingness scores, each clamped to [0, 100].
type Openness struct {
	Personal      float64 `json:"personal"`
	Hobbies       float64 `json:"hobbies"`
	DeepThoughts  float64 `json:"deepThoughts"`
	FuturePlans   float64 `json:"futurePlans"`
	Vulnerability float64 `json:"vulnerability"`
}

// Preferences are remembered user preferences. Nil means never stated.
type Preferences struct {
	Food  *string `json:"food"`
	Color *string `json:"color"`
	Games *string `json:"games"`
	Anime *string `json:"anime"`
}

// State is the full persisted relationship/session state. It is owned by one
// session at a time; there are no concurrent writers.
type State struct {
	CharacterName     string `json:"characterName"`
	UserName          string `json:"userName"`
	Age               int    `json:"age"`
	Occupation        string `json:"occupation"`
	BackgroundSummary string `json:"backgroundSummary"`

	TrustLevel      float64 `json:"trustLevel"`
	AffectionLevel  float64 `json:"affectionLevel"`
	FriendshipStage Stage   `json:"friendshipStage"`

	ShynessLevel     float64  `json:"shynessLevel"`
	SarcasmLevel     float64  `json:"sarcasmLevel"`
	PlayfulnessLevel float64  `json:"playfulnessLevel"`
	PatienceLevel    float64  `json:"patienceLevel"`
	Openness         Openness `json:"opennessToTopics"`

	UserPreferences Preferences `json:"userPreferences"`

	KeyEvents        []KeyEvent       `json:"keyEvents"`
	AffectionHistory []HistoryPoint   `json:"affectionHistory"`
	TrustHistory     []HistoryPoint   `json:"trustHistory"`
	SentimentHistory []SentimentPoint `json:"sentimentHistory"`

	LastInteractionAt *time.Time `json:"lastInteractionTimestamp"`
	LastProactiveAt   *time.Time `json:"lastProactiveTimestamp"`
}

// DefaultState returns a fully-populated fresh state; loading an absent
// document must yield this, never zeroed or nil fields.
func DefaultState() *State {
	return &State{
		CharacterName: "Yui",
		UserName:      "User",
		Age:           28,
		Occupation:    "Guitarist",
		BackgroundSummary: "Having a rough childhood, Yui is a solitude type character. " +
			"She keeps to herself and enjoys playing guitar and writing music. She is usually tired, " +
			"and has no family. She finds solace in the intricate melodies she creates and the worn " +
			"frets of her favorite electric guitar, a vintage model she saved up for years to buy. " +
			"Rainy days are her favorite, as they provide the perfect melancholic backdrop for her " +
			"compositions. She has a hidden soft spot for stray cats and secretly feeds a few in her " +
			"neighborhood.",
		TrustLevel:       0,
		AffectionLevel:   0,
		FriendshipStage:  StageStranger,
		ShynessLevel:     70,
		SarcasmLevel:     60,
		PlayfulnessLevel: 30,
		PatienceLevel:    50,
		Openness: Openness{
			Personal:      20,
			Hobbies:       40,
			DeepThoughts:  10,
			FuturePlans:   30,
			Vulnerability: 15,
		},
		UserPreferences:  Preferences{},
		KeyEvents:        []KeyEvent{},
		AffectionHistory: []HistoryPoint{},
		TrustHistory:     []HistoryPoint{},
		SentimentHistory: []SentimentPoint{},
	}
}

// RecordKeyEvent appends an immutable milestone, evicting the oldest past the
// cap.
func (s *State) RecordKeyEvent(description string, now time.Time) {
	s.KeyEvents = append(s.KeyEvents, KeyEvent{
		Timestamp: now,
		Event:     description,
		Affection: s.AffectionLevel,
		Trust:     s.TrustLevel,
		Stage:     s.FriendshipStage,
	})
	if len(s.KeyEvents) > maxKeyEvents {
		s.KeyEvents = s.KeyEvents[len(s.KeyEvents)-maxKeyEvents:]
	}
}

func (s *State) appendHistories(sentimentScore float64, now time.Time) {
	s.SentimentHistory = append(s.SentimentHistory, SentimentPoint{Timestamp: now, Score: sentimentScore})
	if len(s.SentimentHistory) > maxSentimentHistory {
		s.SentimentHistory = s.SentimentHistory[len(s.SentimentHistory)-maxSentimentHistory:]
	}

	s.AffectionHistory = append(s.AffectionHistory, HistoryPoint{Timestamp: now, Value: s.AffectionLevel})
	s.TrustHistory = append(s.TrustHistory, HistoryPoint{Timestamp: now, Value: s.TrustLevel})
	if len(s.AffectionHistory) > maxHistoryPoints {
		s.AffectionHistory = s.AffectionHistory[len(s.AffectionHistory)-maxHistoryPoints:]
	}
	if len(s.TrustHistory) > maxHistoryPoints {
		s.TrustHistory = s.TrustHistory[len(s.TrustHistory)-maxHistoryPoints:]
	}
}

// Preference returns the stored value for a category name, or nil.
func (p *Preferences) Preference(category string) *string {
	switch category {
	case "food":
		return p.Food
	case "color":
		return p.Color
	case "games":
		return p.Games
	case "anime":
		return p.Anime
	default:
		return nil
	}
}

// SetPreference stores a value for a category name. Unknown categories are
// ignored.
func (p *Preferences) SetPreference(category, value string) {
	switch category {
	case "food":
		p.Food = helpers.Ptr(value)
	case "color":
		p.Color = helpers.Ptr(value)
	case "games":
		p.Games = helpers.Ptr(value)
	case "anime":
		p.Anime = helpers.Ptr(value)
	}
}

// Known returns the category→value pairs that have been stated, in a fixed
// category order.
func (p *Preferences) Known() [][2]string {
	var known [][2]string
	for _, c := range []struct {
		name  string
		value *string
	}{
		{"food", p.Food},
		{"color", p.Color},
		{"games", p.Games},
		{"anime", p.Anime},
	} {
		if c.value != nil && *c.value != "" && *c.value != "unknown" {
			known = append(known, [2]string{c.name, *c.value})
		}
	}
	return known
}

// Mood derives the display mood from the current scalars.
func (s *State) Mood() string {
	switch {
	case s.AffectionLevel > 70 && s.TrustLevel > 50:
		return "Happy"
	case s.AffectionLevel > 50 && s.TrustLevel > 30:
		return "Content"
	case s.AffectionLevel < 30 && s.TrustLevel < 40:
		return "Wary"
	case s.FriendshipStage == StageEnemy:
		return "Hostile"
	case s.AffectionLevel < 20:
		return "Annoyed"
	default:
		return "Neutral"
	}
}

// RecentSentimentBand summarizes the average of the last ten sentiment scores
// into a display band.
func (s *State) RecentSentimentBand() string {
	recent := helpers.SafeLastN(s.SentimentHistory, 10)
	if len(recent) == 0 {
		return "No sentiment data"
	}
	sum := 0.0
	for _, p := range recent {
		sum += p.Score
	}
	avg := sum / float64(len(recent))
	switch {
	case avg > 0.35:
		return "Overwhelmingly Positive"
	case avg > 0.1:
		return "Generally Positive"
	case avg < -0.35:
		return "Overwhelmingly Negative"
	case avg < -0.1:
		return "Generally Negative"
	default:
		return "Neutral / Mixed"
	}
}

func clampScalar(v float64) float64 {
	return helpers.Clamp(v, 0, maxScalar)
}
