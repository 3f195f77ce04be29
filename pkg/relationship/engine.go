package relationship

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yui-chat/yui-go/pkg/nlp"
	"github.com/yui-chat/yui-go/pkg/sentiment"
)

// Patterns driving the per-turn relationship update. Each one detects an
// interaction signal in the user's (or the character's) message.
const (
	patUserOpen       = "(i feel|i think|my opinion is|let me tell you about)"
	patPlayful        = "(lol|haha|funny|joke|kidding|playful)"
	patHarshTone      = "(stop|dont say that|mean|rude)"
	patDemanding      = "(why wont you|you have to|tell me now|stupid|idiot)"
	patCourteous      = "(please|thank you|take your time|i understand)"
	patPersonalTopic  = "(my (childhood|family|secret|dream|fear)|i feel (sad|happy|lonely))"
	patHobbyTopic     = "(your (music|guitar|hobbies)|what do you like to do|i like to (play|read|watch))"
	patDeepTopic      = "(meaning of life|philosophy|universe|existential|what if)"
	patFutureTopic    = "(your (future|dreams|goals)|what are you (planning|gonna do))"
	patSupportive     = "(its okay|i understand|im here for you|you can tell me)"
	patNegatedFeeling = "(not|no|never|isnt|dont|wasnt|werent|cant|couldnt|wouldnt|shouldnt) [0-3] (#Adjective|#Verb|like|love|care|want|need|happy|good|great|nice|fine)"
	patSelfDisclose   = "(i|me|my|mine) (#Adverb|#Adjective)? (feel|felt|think|thought|believe|guess|remember|hope|wish|dream|am|was|have|had|like|love|prefer) [0-5] (#Noun|#Adjective|about|that|because)"
	patGratitude      = "(thank|thanks|appreciate|grateful|sorry|apologize|pardon|excuse me|please)"
	patNoGratitude    = "not (thank|thanks|appreciate|grateful|sorry|apologize)"
	patAboutMe        = "(you|your|yours|yourself|yui)"
	patIntensifier    = "(really|very|so|extremely|absolutely|totally|completely|awfully|terribly|incredibly) (#Adjective|#Adverb|#Verb)"
	patWarmToMe       = "(love|adore|care|miss|like|appreciate|value|cherish|respect|trust) [0-2] (you|yui)"
	patNotWarm        = "(dont|not|never) (love|adore|care|miss|like|appreciate|value|cherish|respect|trust)"
	patHostileToMe    = "(hate|despise|dislike|annoy|bother|frustrate|cant stand) [0-2] (you|yui)"
	patNotHostile     = "(dont|not|never) (hate|despise|dislike|annoy|bother|frustrate|cant stand)"
	patDistressed     = "(i feel|im feeling|im so|i am so) (sad|lonely|upset|scared|worried|anxious|depressed|miserable|bad|terrible|awful|down)"
	patElated         = "(i feel|im feeling|im so|i am so) (happy|excited|great|wonderful|fantastic|thrilled|elated|joyful)"
	patEmpathetic     = "(sorry|understand|know how|feel|thats (tough|hard|sad|great|good)|im here for you|can i help|anything i can do|glad to hear|happy for you|congratulations)"
	patCallback       = "(you said|you mentioned|remember when|about that|regarding that)"
	patAgree          = "(i agree|youre right|exactly|precisely|true|indeed|absolutely|definitely|for sure)"
	patNoAgree        = "(dont|not|never) agree"
	patDisagree       = "(i disagree|not sure about that|i dont think so|actually|but|however)"
	patNoDisagree     = "(dont|not|never) disagree"
)

var characterEmotionTells = []string{
	"happy", "glad", "excited", "good", "great",
	"sad", "upset", "angry", "worried", "scared", "bad", "terrible",
}

// Result reports what a single Update did to the state.
type Result struct {
	Sentiment      float64
	TrustDelta     float64
	AffectionDelta float64
	OldStage       Stage
	NewStage       Stage
}

// StageChanged reports whether the update crossed a stage boundary.
func (r Result) StageChanged() bool { return r.OldStage != r.NewStage }

// Engine applies per-turn relationship dynamics to a State. Randomness goes
// through the injected source so tests can pin it.
type Engine struct {
	parser *nlp.Parser
	scorer *sentiment.Scorer
	rng    *rand.Rand
	logger *log.Logger
}

// NewEngine builds an Engine. A nil source falls back to a time-seeded one.
func NewEngine(parser *nlp.Parser, scorer *sentiment.Scorer, logger *log.Logger, src rand.Source) *Engine {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Engine{
		parser: parser,
		scorer: scorer,
		rng:    rand.New(src),
		logger: logger,
	}
}

func (e *Engine) jitter(base, span float64) float64 {
	return base + e.rng.Float64()*span
}

// Update scores the user's message, adjusts trust, affection, personality
// traits and topic openness, applies variance and the loyalty bonus, then
// runs the stage machine and appends history samples. historyLen is the
// current conversation length in turns, used for the loyalty bonus.
// previousCharacterText is the character's message the user is replying to,
// empty when there is none.
func (e *Engine) Update(state *State, userText, characterText, previousCharacterText string, historyLen int, now time.Time) Result {
	userDoc := e.parser.Parse(userText)
	charDoc := e.parser.Parse(characterText)
	sentimentScore := e.scorer.ScoreDoc(userDoc)

	if sentimentScore != 0 {
		e.logger.Debug("scored user sentiment", "score", sentimentScore)
	}

	var trustChange, affectionChange float64
	var shynessChange, sarcasmChange, playfulnessChange, patienceChange float64
	var opennessChange Openness

	positiveInteractionFactor := (state.TrustLevel/100 + state.AffectionLevel/100) / 2

	// Personality drift. Each adjustment is small and saturates as the trait
	// approaches its ceiling.
	if userDoc.Has(patUserOpen) {
		shynessChange -= 0.2 * (1 - state.ShynessLevel/100)
	}
	if sentimentScore > 0.1 {
		shynessChange -= 0.15 * (1 - state.ShynessLevel/100)
	} else if sentimentScore < -0.1 {
		shynessChange += 0.1
	}

	if userDoc.Has(patPlayful) && sentimentScore > 0.1 {
		playfulnessChange += 0.5 * (1 - state.PlayfulnessLevel/100)
	} else if sentimentScore < -0.2 {
		playfulnessChange -= 0.3
	}

	if state.AffectionLevel < 20 && sentimentScore < -0.5 && userDoc.Has(patHarshTone) {
		sarcasmChange -= 0.5
	} else if state.AffectionLevel > 60 && sentimentScore > 0.2 {
		sarcasmChange += 0.1
	}

	if userDoc.Has(patDemanding) && state.TrustLevel < 40 {
		patienceChange -= 1.0
	} else if userDoc.Has(patCourteous) && sentimentScore > 0 {
		patienceChange += 0.3
	}
	if sentimentScore < -0.5 {
		patienceChange -= 0.5
	}

	if userDoc.Has(patPersonalTopic) && sentimentScore >= -0.1 {
		opennessChange.Personal += 0.5 * positiveInteractionFactor
	}
	if state.TrustLevel > 60 && state.AffectionLevel > 50 {
		opennessChange.Personal += 0.2
	}
	if userDoc.Has(patHobbyTopic) {
		opennessChange.Hobbies += 0.4
	}
	if userDoc.Has(patDeepTopic) && state.TrustLevel > 70 && state.AffectionLevel > 60 {
		opennessChange.DeepThoughts += 0.3
	}
	if userDoc.Has(patFutureTopic) && state.TrustLevel > 50 {
		opennessChange.FuturePlans += 0.4
	}
	if userDoc.Has(patSupportive) && state.TrustLevel > 80 && state.AffectionLevel > 75 && sentimentScore > 0.3 {
		opennessChange.Vulnerability += 0.2
	}
	if state.TrustLevel < 50 || state.AffectionLevel < 40 {
		opennessChange.Vulnerability -= 0.1
	}

	// Core trust/affection movement from overall sentiment.
	if sentimentScore > 0.3 {
		trustChange += e.jitter(0.5, 0.5)
		affectionChange += e.jitter(0.5, 1)
		e.logger.Debug("positive sentiment", "trust", trustChange, "affection", affectionChange)
	} else if sentimentScore < -0.3 {
		trustChange -= e.jitter(0.5, 1)
		affectionChange -= e.jitter(1, 1)
		e.logger.Debug("negative sentiment", "trust", trustChange, "affection", affectionChange)
	}

	if userDoc.Has(patNegatedFeeling) {
		trustChange -= 0.5
		affectionChange -= 0.5
	}

	if userDoc.Has(patSelfDisclose) {
		trustChange += e.jitter(1, 1)
		affectionChange += e.jitter(0.5, 0.5)
		e.logger.Debug("user shared personal info")
	}

	if userDoc.Has(patGratitude) && !userDoc.Has(patNoGratitude) {
		trustChange += e.jitter(0.5, 0.5)
		affectionChange += e.jitter(0.2, 0.3)
	}

	if userDoc.IsQuestion() {
		if userDoc.Has(patAboutMe) {
			trustChange += e.jitter(0.5, 0.5)
			affectionChange += e.jitter(0.3, 0.7)
		} else {
			trustChange += e.jitter(0.2, 0.3)
		}
	}

	emotionalIntensity := 1.0
	if userDoc.Has(patIntensifier) {
		emotionalIntensity = 1.5
	}

	if userDoc.Has(patWarmToMe) && !userDoc.Has(patNotWarm) {
		affectionChange += e.jitter(2, 1) * emotionalIntensity
		trustChange += e.jitter(1, 0.5) * emotionalIntensity
		e.logger.Debug("strong positive expression toward character")
	}
	if userDoc.Has(patHostileToMe) && !userDoc.Has(patNotHostile) {
		affectionChange -= e.jitter(2, 1) * emotionalIntensity
		trustChange -= e.jitter(1.5, 1) * emotionalIntensity
		e.logger.Debug("strong negative expression toward character")
	}

	if userDoc.Has(patDistressed) {
		trustChange += e.jitter(1, 0.5)
	}
	if userDoc.Has(patElated) {
		affectionChange += e.jitter(0.5, 0.5)
	}

	// The user responding warmly to the character's expressed emotion.
	if e.characterShowedEmotion(charDoc, characterText) && userDoc.Has(patEmpathetic) {
		trustChange += e.jitter(1, 0.5)
		affectionChange += e.jitter(0.5, 1)
	}

	// Conversation continuity: the user picks up a topic from the previous
	// character message, or references it explicitly.
	if previousCharacterText != "" {
		prevTopics := e.parser.Parse(previousCharacterText).ExtractTopics()
		userTopics := userDoc.ExtractTopics()
		if overlaps(prevTopics, userTopics) || userDoc.Has(patCallback) {
			trustChange += e.jitter(0.3, 0.2)
		}
	}

	if userDoc.Has(patAgree) && !userDoc.Has(patNoAgree) {
		trustChange += 0.4
		affectionChange += 0.2
	} else if userDoc.Has(patDisagree) && !userDoc.Has(patNoDisagree) {
		trustChange -= 0.3
	}

	// Positive momentum feeds back into the traits.
	if trustChange > 0 {
		shynessChange -= 0.3 * (trustChange / 5)
	}
	if affectionChange > 0 {
		shynessChange -= 0.2 * (affectionChange / 5)
		playfulnessChange += 0.2 * (affectionChange / 3)
	}
	if trustChange < 0 || affectionChange < 0 {
		shynessChange += 0.15
		patienceChange -= 0.2
	}

	state.ShynessLevel = clampScalar(state.ShynessLevel + shynessChange)
	state.SarcasmLevel = clampScalar(state.SarcasmLevel + sarcasmChange)
	state.PlayfulnessLevel = clampScalar(state.PlayfulnessLevel + playfulnessChange)
	state.PatienceLevel = clampScalar(state.PatienceLevel + patienceChange)
	state.Openness.Personal = clampScalar(state.Openness.Personal + opennessChange.Personal)
	state.Openness.Hobbies = clampScalar(state.Openness.Hobbies + opennessChange.Hobbies)
	state.Openness.DeepThoughts = clampScalar(state.Openness.DeepThoughts + opennessChange.DeepThoughts)
	state.Openness.FuturePlans = clampScalar(state.Openness.FuturePlans + opennessChange.FuturePlans)
	state.Openness.Vulnerability = clampScalar(state.Openness.Vulnerability + opennessChange.Vulnerability)

	// Variance only perturbs non-zero deltas so neutral turns stay exactly
	// neutral.
	trustVariance := float64(e.rng.Intn(3) - 1)
	affectionVariance := float64(e.rng.Intn(3) - 1)
	if trustChange != 0 {
		if trustChange > 0 {
			trustChange += trustVariance * 0.5
		} else {
			trustChange -= trustVariance * 0.5
		}
	}
	if affectionChange != 0 {
		if affectionChange > 0 {
			affectionChange += affectionVariance * 0.5
		} else {
			affectionChange -= affectionVariance * 0.5
		}
	}

	// Loyalty bonus for simply sticking around, on every tenth otherwise
	// uneventful turn.
	if historyLen > 10 && historyLen%10 == 0 && trustChange == 0 && affectionChange == 0 && sentimentScore >= -0.1 {
		trustChange += 0.5
		affectionChange += 0.5
		e.logger.Debug("loyalty bonus applied")
	}

	state.TrustLevel = clampScalar(state.TrustLevel + trustChange)
	state.AffectionLevel = clampScalar(state.AffectionLevel + affectionChange)

	if trustChange != 0 {
		e.logger.Info("trust changed", "delta", round2(trustChange), "trust", round2(state.TrustLevel))
	}
	if affectionChange != 0 {
		e.logger.Info("affection changed", "delta", round2(affectionChange), "affection", round2(state.AffectionLevel))
	}

	oldStage := state.FriendshipStage
	advanceStage(state, now)
	if oldStage != state.FriendshipStage {
		e.logger.Info("friendship stage changed", "from", oldStage, "to", state.FriendshipStage)
	}

	state.appendHistories(sentimentScore, now)
	state.LastInteractionAt = &now

	return Result{
		Sentiment:      sentimentScore,
		TrustDelta:     trustChange,
		AffectionDelta: affectionChange,
		OldStage:       oldStage,
		NewStage:       state.FriendshipStage,
	}
}

func (e *Engine) characterShowedEmotion(charDoc *nlp.Doc, characterText string) bool {
	for _, t := range charDoc.Tokens() {
		if t.HasClass("Emotion") {
			return true
		}
	}
	lower := strings.ToLower(characterText)
	for _, w := range characterEmotionTells {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[strings.ToLower(t)] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
