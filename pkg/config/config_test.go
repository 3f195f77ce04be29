package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("COMPLETIONS_API_KEY", "test-key")

	conf, err := LoadConfig(false)
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", conf.CompletionsAPIURL)
	assert.Equal(t, "test-key", conf.CompletionsAPIKey)
	assert.Equal(t, "./output/sqlite/yui.db", conf.DBPath)
	assert.Equal(t, 0.4, conf.Temperature)
	assert.Equal(t, int64(500), conf.MaxTokens)
	assert.Equal(t, 0.45, conf.TopP)
	assert.Equal(t, 30, conf.CompletionsTimeoutSecs)
	assert.Equal(t, 50, conf.MaxMemoryTurns)
	assert.Equal(t, 0.20, conf.ProactiveChance)
	assert.Equal(t, 90, conf.ProactiveCooldownSecs)
	assert.Equal(t, 6, conf.ProactiveMinTurns)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("COMPLETIONS_API_KEY", "test-key")
	t.Setenv("COMPLETIONS_MODEL", "gpt-4.1")
	t.Setenv("COMPLETIONS_TEMPERATURE", "0.9")
	t.Setenv("PROACTIVE_MIN_TURNS", "2")
	t.Setenv("COMPLETIONS_TIMEOUT_SECONDS", "5")
	t.Setenv("MAX_MEMORY_TURNS", "not-a-number")

	conf, err := LoadConfig(false)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", conf.CompletionsModel)
	assert.Equal(t, 0.9, conf.Temperature)
	assert.Equal(t, 2, conf.ProactiveMinTurns)
	assert.Equal(t, 5, conf.CompletionsTimeoutSecs)
	// Unparseable values fall back to the default.
	assert.Equal(t, 50, conf.MaxMemoryTurns)
}

func TestLoadConfigPanicsWithoutAPIKey(t *testing.T) {
	t.Setenv("COMPLETIONS_API_KEY", "")

	assert.Panics(t, func() { _, _ = LoadConfig(false) })
}
