package prompts

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/yui-chat/yui-go/pkg/relationship"
)

//go:embed templates/companion_system_prompt.tmpl
var companionSystemPromptTemplate string

type CompanionSystemPrompt struct {
	CharacterName     string
	UserName          string
	Age               int
	Occupation        string
	BackgroundSummary string

	TrustLevel      float64
	AffectionLevel  float64
	FriendshipStage string

	Shyness     float64
	Sarcasm     float64
	Playfulness float64
	Patience    float64

	OpennessPersonal      float64
	OpennessHobbies       float64
	OpennessDeepThoughts  float64
	OpennessFuturePlans   float64
	OpennessVulnerability float64

	FoodPreference  string
	GamesPreference string
	AnimePreference string
	ColorPreference string

	MemoryRecap string
}

// NewCompanionSystemPrompt fills the prompt data from relationship state.
// Unset preferences render as "unknown" so the model never invents them.
func NewCompanionSystemPrompt(state *relationship.State, memoryRecap string) CompanionSystemPrompt {
	return CompanionSystemPrompt{
		CharacterName:         state.CharacterName,
		UserName:              state.UserName,
		Age:                   state.Age,
		Occupation:            state.Occupation,
		BackgroundSummary:     state.BackgroundSummary,
		TrustLevel:            state.TrustLevel,
		AffectionLevel:        state.AffectionLevel,
		FriendshipStage:       string(state.FriendshipStage),
		Shyness:               state.ShynessLevel,
		Sarcasm:               state.SarcasmLevel,
		Playfulness:           state.PlayfulnessLevel,
		Patience:              state.PatienceLevel,
		OpennessPersonal:      state.Openness.Personal,
		OpennessHobbies:       state.Openness.Hobbies,
		OpennessDeepThoughts:  state.Openness.DeepThoughts,
		OpennessFuturePlans:   state.Openness.FuturePlans,
		OpennessVulnerability: state.Openness.Vulnerability,
		FoodPreference:        preferenceOrUnknown(state.UserPreferences.Food),
		GamesPreference:       preferenceOrUnknown(state.UserPreferences.Games),
		AnimePreference:       preferenceOrUnknown(state.UserPreferences.Anime),
		ColorPreference:       preferenceOrUnknown(state.UserPreferences.Color),
		MemoryRecap:           memoryRecap,
	}
}

func BuildCompanionSystemPrompt(data CompanionSystemPrompt) (string, error) {
	tmpl, err := template.New("companion_system").Parse(companionSystemPromptTemplate)
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

func preferenceOrUnknown(value *string) string {
	if value == nil || *value == "" {
		return "unknown"
	}
	return *value
}
