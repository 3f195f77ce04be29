package nlp

import (
	"strings"
)

// stopwords excluded from topic extraction; generic terms that never make a
// useful conversational topic.
var topicStopwords = map[string]bool{
	"thing": true, "things": true, "something": true, "anything": true,
	"someone": true, "anyone": true, "stuff": true, "lot": true, "bit": true,
	"way": true, "time": true, "today": true, "yesterday": true, "tomorrow": true,
	"dont": true, "thats": true, "okay": true, "yeah": true,
}

// ExtractTopics pulls candidate topic terms from an utterance: common nouns
// (pronouns excluded), named persons and places, emotion words, and words
// adjacent to preference verbs. Order is first-seen; deduplication is
// case-insensitive on the base form; terms of two characters or fewer are
// dropped. A Doc produced from untaggable text yields an empty slice.
func (d *Doc) ExtractTopics() []string {
	var topics []string
	seen := map[string]bool{}

	add := func(term string) {
		term = strings.TrimSpace(term)
		if len(term) <= 2 {
			return
		}
		key := baseForm(strings.ToLower(term))
		if topicStopwords[key] || seen[key] {
			return
		}
		seen[key] = true
		topics = append(topics, term)
	}

	for _, t := range d.tokens {
		switch {
		case t.isPronoun():
			continue
		case t.isNoun(), t.isPerson(), t.isPlace(), t.isEmotion():
			add(t.Text)
		case preferenceVerbs[t.Lower] || preferenceVerbs[baseForm(t.Lower)]:
			add(t.Text)
		}
	}

	return topics
}

// TopicSimilarity computes Jaccard similarity between two topic sets,
// comparing case-insensitively on base forms. Empty input on either side
// yields zero.
func TopicSimilarity(topicsA, topicsB []string) float64 {
	if len(topicsA) == 0 || len(topicsB) == 0 {
		return 0
	}

	setA := topicSet(topicsA)
	setB := topicSet(topicsB)

	overlap := 0
	for key := range setA {
		if setB[key] {
			overlap++
		}
	}
	union := len(setA) + len(setB) - overlap
	if union == 0 {
		return 0
	}
	return float64(overlap) / float64(union)
}

// MergeTopics unions two topic lists preserving first-seen order.
func MergeTopics(topicsA, topicsB []string) []string {
	merged := make([]string, 0, len(topicsA)+len(topicsB))
	seen := map[string]bool{}
	for _, t := range append(append([]string{}, topicsA...), topicsB...) {
		key := baseForm(strings.ToLower(t))
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, t)
	}
	return merged
}

func topicSet(topics []string) map[string]bool {
	set := make(map[string]bool, len(topics))
	for _, t := range topics {
		set[baseForm(strings.ToLower(t))] = true
	}
	return set
}
