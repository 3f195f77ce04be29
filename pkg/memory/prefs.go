package memory

import (
	"regexp"
	"strings"

	"github.com/yui-chat/yui-go/pkg/events"
	"github.com/yui-chat/yui-go/pkg/relationship"
)

// PreferenceUpdate names the category and value a preference extraction
// produced. It rides on the preference.updated event.
type PreferenceUpdate struct {
	Category string
	Value    string
}

type preferenceRule struct {
	category   string
	patterns   []string
	reject     map[string]bool
	minLen     int
	trimSuffix *regexp.Regexp
}

var (
	gameSuffixRe  = regexp.MustCompile(`\s+games?$`)
	animeSuffixRe = regexp.MustCompile(`\s+(anime|show|series)$`)
)

// preferenceRules are tried per category in order; the first pattern that
// yields an acceptable value wins that category.
var preferenceRules = []preferenceRule{
	{
		category: "food",
		patterns: []string{
			"(my|i) (favorite|like|love|prefer|enjoy) [0-2] (food|meal|dish|cuisine) [0-2] (is|are|be) (?P<value>.+)",
			"(my|i) (like|love|prefer|enjoy) (?P<value>#Noun+ (and #Noun+)?) (a lot|very much)?",
			"(?P<value>#Noun+ (and #Noun+)?) (is|are|be) my favorite [0-2] (food|meal|dish|cuisine)",
		},
		reject: map[string]bool{"food": true, "meal": true, "dish": true, "cuisine": true, "it": true, "that": true, "this": true},
		minLen: 3,
	},
	{
		category: "color",
		patterns: []string{
			"(my|i) (favorite|like|love|prefer) [0-2] color [0-2] (is|are|be) (?P<value>.+)",
			"(my|i) (like|love|prefer) (?P<value>#Color) (a lot|very much)?",
			"(my|i) (like|love|prefer) (?P<value>#Noun+) (as a color|for color)? (a lot|very much)?",
			"(?P<value>#Color) (is|are|be) my favorite color",
			"(?P<value>#Noun+) (is|are|be) my favorite color",
		},
		reject: map[string]bool{"color": true, "it": true, "that": true, "this": true},
		minLen: 3,
	},
	{
		category: "games",
		patterns: []string{
			"(my|i) (favorite|like|love|prefer|enjoy) [0-2] (game|games|video game|video games|gaming) [0-2] (is|are|be|called) (?P<value>.+)",
			"(my|i) (like|love|prefer|enjoy|play) (?P<value>(#TitleCase+|#Noun+)+) (game|games)? (a lot|very much)? (often)?",
			"(?P<value>(#TitleCase+|#Noun+)+) (is|are|be) my favorite [0-2] (game|video game)",
		},
		reject:     map[string]bool{"game": true, "games": true, "video game": true, "video games": true, "gaming": true, "it": true, "that": true, "this": true},
		minLen:     2,
		trimSuffix: gameSuffixRe,
	},
	{
		category: "anime",
		patterns: []string{
			"(my|i) (favorite|like|love|prefer|enjoy) [0-2] (anime|show|series) [0-2] (is|are|be|called) (?P<value>.+)",
			"(my|i) (like|love|prefer|enjoy|watch) (?P<value>(#TitleCase+|#Noun+)+) (anime|show|series)? (a lot|very much)? (often)?",
			"(?P<value>(#TitleCase+|#Noun+)+) (is|are|be) my favorite [0-2] (anime|show|series)",
		},
		reject:     map[string]bool{"anime": true, "show": true, "series": true, "it": true, "that": true, "this": true},
		minLen:     2,
		trimSuffix: animeSuffixRe,
	},
}

// ExtractPreferences scans a user message for stated preferences in the four
// remembered categories and records any new value. Each updated category
// fires a preference.updated event. An extraction that merely restates the
// stored value is a no-op.
func (m *Manager) ExtractPreferences(text string, prefs *relationship.Preferences) []PreferenceUpdate {
	doc := m.parser.Parse(strings.ToLower(text))
	var updated []PreferenceUpdate

	for _, rule := range preferenceRules {
		for _, pattern := range rule.patterns {
			match := doc.Match(pattern)
			if !match.Found {
				continue
			}
			value := strings.TrimSpace(strings.ToLower(match.Captures["value"]))
			if rule.trimSuffix != nil {
				value = strings.TrimSpace(rule.trimSuffix.ReplaceAllString(value, ""))
			}
			if len(value) < rule.minLen || rule.reject[value] {
				continue
			}
			current := prefs.Preference(rule.category)
			if current != nil && *current == value {
				break
			}
			prefs.SetPreference(rule.category, value)
			m.logger.Info("noted user preference", "category", rule.category, "value", value)
			m.bus.Publish(events.NewEvent(events.PreferenceUpdated, PreferenceUpdate{Category: rule.category, Value: value}))
			updated = append(updated, PreferenceUpdate{Category: rule.category, Value: value})
			break
		}
	}
	return updated
}
