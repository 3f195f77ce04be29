package prompts

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/yui-chat/yui-go/pkg/relationship"
)

//go:embed templates/context_summary_prompt.tmpl
var contextSummaryPromptTemplate string

type ContextSummaryPrompt struct {
	FoodPreference  string
	GamesPreference string
	AnimePreference string
	ColorPreference string
	FriendshipStage string
	TrustLevel      float64
	AffectionLevel  float64
}

// NewContextSummaryPrompt fills the summary-turn data from relationship
// state.
func NewContextSummaryPrompt(state *relationship.State) ContextSummaryPrompt {
	return ContextSummaryPrompt{
		FoodPreference:  preferenceOrUnknown(state.UserPreferences.Food),
		GamesPreference: preferenceOrUnknown(state.UserPreferences.Games),
		AnimePreference: preferenceOrUnknown(state.UserPreferences.Anime),
		ColorPreference: preferenceOrUnknown(state.UserPreferences.Color),
		FriendshipStage: string(state.FriendshipStage),
		TrustLevel:      state.TrustLevel,
		AffectionLevel:  state.AffectionLevel,
	}
}

// BuildContextSummaryPrompt renders the synthetic context turn injected when
// history truncation drops too much conversation.
func BuildContextSummaryPrompt(data ContextSummaryPrompt) (string, error) {
	tmpl, err := template.New("context_summary").Parse(contextSummaryPromptTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
