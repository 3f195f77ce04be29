package prompts

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed templates/proactive_preference_prompt.tmpl
var proactivePreferencePromptTemplate string

//go:embed templates/proactive_fact_prompt.tmpl
var proactiveFactPromptTemplate string

type ProactivePreferencePrompt struct {
	UserName string
	Category string
	Value    string
}

type ProactiveFactPrompt struct {
	UserName string
	Fact     string
}

// BuildProactivePreferencePrompt renders the internal instruction that nudges
// the character to bring up a remembered preference.
func BuildProactivePreferencePrompt(data ProactivePreferencePrompt) (string, error) {
	tmpl, err := template.New("proactive_preference").Parse(proactivePreferencePromptTemplate)
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

// BuildProactiveFactPrompt renders the internal instruction that nudges the
// character to revisit a stored user fact. Long facts are trimmed before
// templating.
func BuildProactiveFactPrompt(data ProactiveFactPrompt) (string, error) {
	if len(data.Fact) > 100 {
		data.Fact = data.Fact[:97] + "..."
	}
	tmpl, err := template.New("proactive_fact").Parse(proactiveFactPromptTemplate)
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
