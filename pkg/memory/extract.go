package memory

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yui-chat/yui-go/pkg/events"
	"github.com/yui-chat/yui-go/pkg/nlp"
	"github.com/yui-chat/yui-go/pkg/relationship"
)

const (
	patSelfDisclosure   = "(i|me|my|mine) (am|is|was|have|had|like|love|hate|prefer) [0-10]"
	patFeelingToward    = "(i|me) [0-3] (love|like|hate|miss|care|trust) [0-3] you"
	patPersonalSubject  = "(family|childhood|past|future|dream|goal|ambition|hope|fear)"
	patPreferenceSignal = "(favorite|prefer|like best|love|enjoy|dislike|hate)"
	patFuturePlan       = "(tomorrow|weekend|later|next|plan|meet|date|event)"
	patSelfReference    = "(i|me|my|mine) (#Adverb|#Adjective)? (#Verb|am|was|have|had) [0-5]"

	patFavoriteOf     = "(my|i) (favorite|favourite)? #Noun+ (is|are) (#Noun+|#ProperNoun+|#Adjective+)"
	patLikesThing     = "(i|me) (like|love|enjoy|prefer|adore|hate|dislike) (?P<value>(#Noun+|#ProperNoun+|#Activity+))"
	patIsA            = "(?P<entity>(#Noun+|#ProperNoun+)) (is|are) (a|an)? (?P<category>(#Noun+|#Adjective+))"
	patImpliedFavCat  = "(color|food|game|anime|movie|book|song|music)"
	patDislikeVariant = "(hate|dislike)"
)

var strongEmotionWords = []string{
	"love", "happy", "sad", "angry", "scared", "excited", "nervous", "proud", "hurt",
}

// Manager owns the memory pools and runs extraction over each completed
// exchange.
type Manager struct {
	pools  *Pools
	parser *nlp.Parser
	bus    *events.EventBus
	logger *log.Logger
	now    func() time.Time
}

// NewManager wraps existing pools. The clock is injectable for tests.
func NewManager(pools *Pools, parser *nlp.Parser, bus *events.EventBus, logger *log.Logger) *Manager {
	return &Manager{
		pools:  pools,
		parser: parser,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// Pools exposes the underlying pools, mainly for persistence.
func (m *Manager) Pools() *Pools { return m.pools }

// ProcessConversation runs every extractor over one completed exchange and
// updates the pools and knowledge graph.
func (m *Manager) ProcessConversation(userText, characterText string, state *relationship.State) {
	userDoc := m.parser.Parse(userText)
	charDoc := m.parser.Parse(characterText)
	now := m.now()

	m.extractUserFacts(userDoc, state, now)
	m.checkEmotionalMoment(userDoc, charDoc, userText, characterText, state, now)
	m.checkKeyConversation(userDoc, userText, characterText, state, now)
	m.extractCharacterExperience(charDoc, characterText, state, now)

	if userText != "" {
		m.extractGraphData(userDoc, state.UserName, "user")
	}
	if characterText != "" {
		m.extractGraphData(charDoc, state.CharacterName, "character")
	}
}

func (m *Manager) extractUserFacts(userDoc *nlp.Doc, state *relationship.State, now time.Time) {
	for _, match := range userDoc.MatchAll(patSelfDisclosure) {
		factText := joinTokens(match.Terms)
		if m.hasFact(factText) {
			continue
		}
		m.pools.UserFacts = append(m.pools.UserFacts, UserFact{
			Text:      factText,
			Timestamp: now,
			Affection: state.AffectionLevel,
			Trust:     state.TrustLevel,
		})
		m.logger.Info("extracted user fact", "fact", factText)
		m.bus.Publish(events.NewEvent(events.FactExtracted, factText))
	}
}

func (m *Manager) hasFact(text string) bool {
	for _, f := range m.pools.UserFacts {
		if f.Text == text {
			return true
		}
	}
	return false
}

func (m *Manager) checkEmotionalMoment(userDoc, charDoc *nlp.Doc, userText, characterText string, state *relationship.State, now time.Time) {
	userEmotions := emotionTerms(userDoc)
	charEmotions := emotionTerms(charDoc)

	hasStrongEmotion := false
	userLower, charLower := strings.ToLower(userText), strings.ToLower(characterText)
	for _, w := range strongEmotionWords {
		if strings.Contains(userLower, w) || strings.Contains(charLower, w) {
			hasStrongEmotion = true
			break
		}
	}

	expressesFeeling := userDoc.Has(patFeelingToward) || charDoc.Has(patFeelingToward)

	if !hasStrongEmotion && !expressesFeeling && len(userEmotions) == 0 && len(charEmotions) == 0 {
		return
	}

	m.pools.EmotionalMoments = append(m.pools.EmotionalMoments, EmotionalMoment{
		UserText:      userText,
		CharacterText: characterText,
		Timestamp:     now,
		Affection:     state.AffectionLevel,
		Trust:         state.TrustLevel,
		Emotions:      append(userEmotions, charEmotions...),
	})
}

func (m *Manager) checkKeyConversation(userDoc *nlp.Doc, userText, characterText string, state *relationship.State, now time.Time) {
	importance := 0
	if userDoc.IsQuestion() {
		importance++
	}
	if userDoc.Has(patPersonalSubject) {
		importance += 2
	}
	if userDoc.Has(patPreferenceSignal) {
		importance++
	}
	if userDoc.Has(patFuturePlan) {
		importance += 3
	}

	// A big affection swing marks the exchange important regardless of its
	// wording.
	if n := len(state.AffectionHistory); n >= 2 {
		prev := state.AffectionHistory[n-2].Value
		if diff := state.AffectionLevel - prev; diff >= 5 || diff <= -5 {
			importance += 3
		}
	}

	if importance < 2 {
		return
	}
	m.pools.KeyConversations = append(m.pools.KeyConversations, KeyConversation{
		UserText:      userText,
		CharacterText: characterText,
		Timestamp:     now,
		Importance:    importance,
		Affection:     state.AffectionLevel,
		Trust:         state.TrustLevel,
	})
}

func (m *Manager) extractCharacterExperience(charDoc *nlp.Doc, characterText string, state *relationship.State, now time.Time) {
	if !charDoc.Has(patSelfReference) {
		return
	}
	m.pools.CharacterExperiences = append(m.pools.CharacterExperiences, CharacterExperience{
		Text:      characterText,
		Timestamp: now,
		Affection: state.AffectionLevel,
		Trust:     state.TrustLevel,
	})
}

// extractGraphData mines one side of the exchange for graph triples. The
// speaker becomes a person node and the source of extracted relations.
func (m *Manager) extractGraphData(doc *nlp.Doc, speakerName, fallback string) {
	if speakerName == "" {
		speakerName = fallback
	}
	sourceID := NormalizeEntityID(speakerName)
	m.pools.KnowledgeGraph.AddNode(sourceID, speakerName, "person")

	// "My favorite food is pizza" style statements.
	for _, match := range doc.MatchAll(patFavoriteOf) {
		category, value := splitFavorite(match.Terms)
		if category != "" && value != "" {
			relation := "has_favorite_" + NormalizeEntityID(category)
			m.pools.KnowledgeGraph.AddNode(value, value, category)
			m.pools.KnowledgeGraph.AddEdge(sourceID, value, relation)
			m.logger.Debug("graph triple", "source", sourceID, "relation", relation, "target", value)
			continue
		}
		if value != "" {
			// "My favorite is pizza" relies on an explicit category word
			// elsewhere in the match.
			if implied := matchText(match.Terms, patImpliedFavCat, m.parser); implied != "" {
				relation := "has_favorite_" + NormalizeEntityID(implied)
				m.pools.KnowledgeGraph.AddNode(value, value, implied)
				m.pools.KnowledgeGraph.AddEdge(sourceID, value, relation)
			}
		}
	}

	// "I like X" / "I hate X" statements.
	for _, match := range doc.MatchAll(patLikesThing) {
		value := match.Captures["value"]
		if value == "" {
			continue
		}
		relation := "likes"
		if verbMatches(match.Terms, patDislikeVariant, m.parser) {
			relation = "dislikes"
		}
		m.pools.KnowledgeGraph.AddNode(value, value, "thing")
		m.pools.KnowledgeGraph.AddEdge(sourceID, value, relation)
	}

	// "X is a Y" taxonomy statements.
	for _, match := range doc.MatchAll(patIsA) {
		entity := match.Captures["entity"]
		category := match.Captures["category"]
		if entity == "" || category == "" || NormalizeEntityID(entity) == sourceID {
			continue
		}
		m.pools.KnowledgeGraph.AddNode(entity, entity, category)
		m.pools.KnowledgeGraph.AddNode(category, category, "category")
		m.pools.KnowledgeGraph.AddEdge(entity, category, "is_a")
	}
}

// splitFavorite walks the matched terms around the is/are pivot: the noun
// immediately before it is the category, everything after is the value.
func splitFavorite(terms []nlp.Token) (category, value string) {
	for i, t := range terms {
		if t.Lower != "is" && t.Lower != "are" {
			continue
		}
		if i > 0 && terms[i-1].HasClass("Noun") {
			category = terms[i-1].Text
		}
		if i < len(terms)-1 {
			value = joinTokens(terms[i+1:])
		}
		break
	}
	if category == "" && len(terms) > 2 && terms[1].HasClass("Noun") {
		category = terms[1].Text
	}
	return category, value
}

func joinTokens(tokens []nlp.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func matchText(terms []nlp.Token, pattern string, parser *nlp.Parser) string {
	sub := parser.Parse(joinTokens(terms))
	if match := sub.Match(pattern); match.Found {
		return joinTokens(match.Terms)
	}
	return ""
}

func verbMatches(terms []nlp.Token, pattern string, parser *nlp.Parser) bool {
	return parser.Parse(joinTokens(terms)).Has(pattern)
}

func emotionTerms(doc *nlp.Doc) []string {
	var out []string
	for _, t := range doc.Tokens() {
		if t.HasClass("Emotion") {
			out = append(out, t.Text)
		}
	}
	return out
}
