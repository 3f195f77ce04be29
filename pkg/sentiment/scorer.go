// Package sentiment estimates utterance polarity with a fixed lexicon and a
// few pattern heuristics. The output is a heuristic in [-1, 1], not a
// calibrated probability.
package sentiment

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yui-chat/yui-go/pkg/nlp"
)

const (
	intensifierPattern     = "(very|really|extremely|absolutely|so|incredibly|totally|awfully|terribly) #Adjective"
	intensifierVerbPattern = "(very|really|extremely|absolutely|so|incredibly|totally|awfully|terribly) #Verb"
	diminisherPattern      = "(kinda|kind of|sorta|sort of|slightly|a bit|a little) #Adjective"
	negatedAdjPattern      = "#Negative #Adjective"
	negatedVerbPattern     = "#Negative #Verb"
)

// Scorer scores utterances. Safe for concurrent use; scoring is pure.
type Scorer struct {
	parser *nlp.Parser
	logger *log.Logger
}

func NewScorer(parser *nlp.Parser, logger *log.Logger) *Scorer {
	return &Scorer{parser: parser, logger: logger}
}

// Score parses and scores raw text.
func (s *Scorer) Score(text string) float64 {
	return s.ScoreDoc(s.parser.Parse(text))
}

// ScoreDoc scores an already-parsed utterance.
//
// Base score counts lexicon terms contained in the lowercased text. Modifier
// passes adjust contributions for intensified, diminished and negated terms,
// then the raw score is squashed onto [-1, 1] by a fixed fraction of the
// lexicon size.
func (s *Scorer) ScoreDoc(doc *nlp.Doc) float64 {
	text := strings.ToLower(doc.Text())
	if strings.TrimSpace(text) == "" {
		return 0
	}

	score := 0.0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			score--
		}
	}

	// Intensifier in front of an adjective amplifies that adjective's polarity.
	for _, m := range doc.MatchAll(intensifierPattern) {
		adj := lastTermBase(m)
		if positiveSet[adj] {
			score += 0.5
		}
		if negativeSet[adj] {
			score -= 0.5
		}
	}

	// Same for an intensified sentiment verb ("absolutely love").
	for _, m := range doc.MatchAll(intensifierVerbPattern) {
		verb := lastTermText(m)
		if containsAny(verb, positiveWords) {
			score += 0.5
		}
		if containsAny(verb, negativeWords) {
			score -= 0.5
		}
	}

	// Diminisher dampens the adjective's polarity.
	for _, m := range doc.MatchAll(diminisherPattern) {
		adj := lastTermBase(m)
		if positiveSet[adj] {
			score -= 0.2
		}
		if negativeSet[adj] {
			score += 0.2
		}
	}

	// Negated positive swings hard negative; negated negative ("not bad") is
	// only mildly positive.
	for _, m := range doc.MatchAll(negatedAdjPattern) {
		adj := lastTermBase(m)
		if positiveSet[adj] {
			score -= 1.5
		}
		if negativeSet[adj] {
			score += 0.5
		}
	}
	for _, m := range doc.MatchAll(negatedVerbPattern) {
		verb := lastTermText(m)
		if containsAny(verb, positiveWords) {
			score -= 1.5
		}
		if containsAny(verb, negativeWords) {
			score += 0.5
		}
	}

	return normalize(score)
}

// normalize squashes the raw count onto [-1, 1]. The divisor is a fixed fifth
// of the lexicon size; crude, but stable for the fixed word lists.
func normalize(score float64) float64 {
	switch {
	case score > 0:
		normalized := score / (float64(len(positiveWords)) * 0.2)
		if normalized > 1 {
			return 1
		}
		return normalized
	case score < 0:
		normalized := score / (float64(len(negativeWords)) * 0.2)
		if normalized < -1 {
			return -1
		}
		return normalized
	default:
		return 0
	}
}

func lastTermBase(m nlp.MatchResult) string {
	if len(m.Terms) == 0 {
		return ""
	}
	return nlp.BaseForm(m.Terms[len(m.Terms)-1].Text)
}

func lastTermText(m nlp.MatchResult) string {
	if len(m.Terms) == 0 {
		return ""
	}
	return m.Terms[len(m.Terms)-1].Lower
}

func containsAny(word string, lexicon []string) bool {
	for _, w := range lexicon {
		if strings.Contains(word, w) {
			return true
		}
	}
	return false
}
