// Package memory implements the long-term memory system: typed memory pools,
// a lightweight knowledge graph, fact and preference extraction, keyword
// recall and proactive recall suggestions.
package memory

import "time"

// UserFact is a self-disclosed statement by the user, stored verbatim.
type UserFact struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Affection float64   `json:"affectionLevel"`
	Trust     float64   `json:"trustLevel"`
}

// EmotionalMoment records an exchange with detectable emotional charge.
type EmotionalMoment struct {
	UserText      string    `json:"userText"`
	CharacterText string    `json:"yuiText"`
	Timestamp     time.Time `json:"timestamp"`
	Affection     float64   `json:"affectionLevel"`
	Trust         float64   `json:"trustLevel"`
	Emotions      []string  `json:"emotions"`
}

// KeyConversation is an exchange scored important enough to keep.
type KeyConversation struct {
	UserText      string    `json:"userText"`
	CharacterText string    `json:"yuiText"`
	Timestamp     time.Time `json:"timestamp"`
	Importance    int       `json:"importance"`
	Affection     float64   `json:"affectionLevel"`
	Trust         float64   `json:"trustLevel"`
}

// CharacterExperience is a self-referential statement made by the character.
type CharacterExperience struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Affection float64   `json:"affectionLevel"`
	Trust     float64   `json:"trustLevel"`
}

// Pools holds every long-term memory pool plus the knowledge graph. Pools
// grow without bound within a session; only short-term history is pruned.
type Pools struct {
	UserFacts            []UserFact            `json:"userFacts"`
	KeyConversations     []KeyConversation     `json:"keyConversations"`
	EmotionalMoments     []EmotionalMoment     `json:"emotionalMoments"`
	CharacterExperiences []CharacterExperience `json:"yuiExperiences"`
	KnowledgeGraph       *KnowledgeGraph       `json:"knowledgeGraph"`
}

// NewPools returns empty pools with an initialized knowledge graph.
func NewPools() *Pools {
	return &Pools{
		UserFacts:            []UserFact{},
		KeyConversations:     []KeyConversation{},
		EmotionalMoments:     []EmotionalMoment{},
		CharacterExperiences: []CharacterExperience{},
		KnowledgeGraph:       NewKnowledgeGraph(),
	}
}

// Normalize repairs pools loaded from an older or partial document so every
// field is usable.
func (p *Pools) Normalize() {
	if p.UserFacts == nil {
		p.UserFacts = []UserFact{}
	}
	if p.KeyConversations == nil {
		p.KeyConversations = []KeyConversation{}
	}
	if p.EmotionalMoments == nil {
		p.EmotionalMoments = []EmotionalMoment{}
	}
	if p.CharacterExperiences == nil {
		p.CharacterExperiences = []CharacterExperience{}
	}
	if p.KnowledgeGraph == nil {
		p.KnowledgeGraph = NewKnowledgeGraph()
	} else {
		p.KnowledgeGraph.normalize()
	}
}

// Clear resets every pool and the knowledge graph.
func (p *Pools) Clear() {
	*p = *NewPools()
}
