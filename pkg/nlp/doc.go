// Package nlp wraps a part-of-speech tagger behind the narrow query surface the
// companion core needs: tagged tokens, pattern matching with capture groups, and
// topic extraction. Pattern syntax is documented in pattern.go.
package nlp

import (
	"strings"

	"github.com/charmbracelet/log"
	prose "github.com/jdkato/prose/v2"
)

// Token is one tagged term of a parsed utterance.
type Token struct {
	Text  string
	Lower string
	Tag   string // Penn Treebank tag from the tagger
	Label string // entity label when the token is part of a named entity
}

// Doc is a parsed utterance supporting pattern queries. A Doc is immutable.
type Doc struct {
	text   string
	tokens []Token
}

// Parser tags raw text into queryable Docs. Tagging failures degrade to an
// empty Doc; callers never see an error from parsing.
type Parser struct {
	logger *log.Logger
}

func NewParser(logger *log.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse tags text. On tagger failure it logs and returns an empty Doc so
// extraction call sites can treat the result as "no match".
func (p *Parser) Parse(text string) *Doc {
	if strings.TrimSpace(text) == "" {
		return &Doc{text: text}
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("Tagger failed, treating utterance as untaggable", "error", err, "text_length", len(text))
		}
		return &Doc{text: text}
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for _, t := range proseTokens {
		tokens = append(tokens, Token{
			Text:  t.Text,
			Lower: strings.ToLower(t.Text),
			Tag:   t.Tag,
			Label: t.Label,
		})
	}

	return &Doc{text: text, tokens: tokens}
}

// Text returns the original utterance.
func (d *Doc) Text() string { return d.text }

// Tokens returns the tagged terms.
func (d *Doc) Tokens() []Token { return d.tokens }

// IsQuestion reports whether the utterance reads as a question: a trailing
// question mark, or a leading interrogative / auxiliary verb.
func (d *Doc) IsQuestion() bool {
	trimmed := strings.TrimSpace(d.text)
	if strings.HasSuffix(trimmed, "?") {
		return true
	}
	if len(d.tokens) == 0 {
		return false
	}
	return questionOpeners[d.tokens[0].Lower]
}

var questionOpeners = map[string]bool{
	"who": true, "what": true, "when": true, "where": true, "why": true, "how": true,
	"do": true, "does": true, "did": true, "is": true, "are": true, "am": true,
	"was": true, "were": true, "can": true, "could": true, "would": true,
	"will": true, "should": true, "have": true, "has": true,
}

// tag classes understood by the pattern language.

func (t Token) isNoun() bool {
	return strings.HasPrefix(t.Tag, "NN")
}

func (t Token) isProperNoun() bool {
	return t.Tag == "NNP" || t.Tag == "NNPS"
}

func (t Token) isPronoun() bool {
	return t.Tag == "PRP" || t.Tag == "PRP$" || t.Tag == "WP" || t.Tag == "WP$"
}

func (t Token) isAdjective() bool {
	return strings.HasPrefix(t.Tag, "JJ")
}

func (t Token) isVerb() bool {
	return strings.HasPrefix(t.Tag, "VB") || t.Tag == "MD"
}

func (t Token) isAdverb() bool {
	return strings.HasPrefix(t.Tag, "RB")
}

func (t Token) isPerson() bool {
	return strings.Contains(t.Label, "PERSON")
}

func (t Token) isPlace() bool {
	return strings.Contains(t.Label, "GPE") || strings.Contains(t.Label, "LOC")
}

func (t Token) isEmotion() bool {
	return emotionWords[baseForm(t.Lower)] || emotionWords[t.Lower]
}

func (t Token) isNegative() bool {
	return negationWords[t.Lower] || strings.HasSuffix(t.Lower, "n't")
}

// HasClass reports whether the token belongs to the named tag class.
func (t Token) HasClass(class string) bool {
	switch class {
	case "Noun":
		return t.isNoun()
	case "ProperNoun":
		return t.isProperNoun()
	case "Pronoun":
		return t.isPronoun()
	case "Adjective":
		return t.isAdjective()
	case "Verb":
		return t.isVerb()
	case "Adverb":
		return t.isAdverb()
	case "Person":
		return t.isPerson()
	case "Place":
		return t.isPlace()
	case "Emotion":
		return t.isEmotion()
	case "Negative":
		return t.isNegative()
	case "Color":
		return colorWords[t.Lower]
	case "Activity":
		// Gerunds read as activities: "swimming", "gaming".
		return t.Tag == "VBG"
	case "TitleCase":
		return len(t.Text) > 0 && t.Text[0] >= 'A' && t.Text[0] <= 'Z'
	default:
		return false
	}
}

// baseForm crudely reduces a lowercased word toward its base: strips
// possessives and regular plural endings. Not a lemmatizer; good enough for
// topic dedup and lexicon lookups.
func baseForm(lower string) string {
	w := strings.TrimSuffix(lower, "'s")
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "ches"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "s") && len(w) > 3:
		return w[:len(w)-1]
	default:
		return w
	}
}

// BaseForm exposes the reduction used internally for lexicon lookups.
func BaseForm(word string) string {
	return baseForm(strings.ToLower(word))
}
