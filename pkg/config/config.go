package config

import (
	"fmt"
	"strconv"

	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type Config struct {
	CompletionsAPIURL string
	CompletionsAPIKey string
	CompletionsModel  string
	DBPath            string
	AppDataPath       string

	// Generation parameters for the completion service. TopK is accepted for
	// parity with Gemini-style configs but OpenAI-compatible endpoints ignore it.
	Temperature float64
	MaxTokens   int64
	TopK        int64
	TopP        float64

	// Per-request ceiling on the completion call, on top of any caller context.
	CompletionsTimeoutSecs int

	// Session limits.
	MaxMemoryTurns int

	// Proactive engagement gates.
	ProactiveChance       float64
	ProactiveCooldownSecs int
	ProactiveMinTurns     int
}

func getEnv(key, defaultValue string, printEnv bool) string {
	logger := log.Default()
	value := os.Getenv(key)
	if printEnv {
		logger.Info("Env", "key", key, "value", value)
	}
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvOrPanic(key string, printEnv bool) string {
	value := getEnv(key, "", printEnv)
	if value == "" {
		panic(fmt.Sprintf("Environment variable %s is not set", key))
	}
	return value
}

func getEnvFloat(key string, defaultValue float64, printEnv bool) float64 {
	raw := getEnv(key, "", printEnv)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int, printEnv bool) int {
	raw := getEnv(key, "", printEnv)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func LoadConfig(printEnv bool) (*Config, error) {
	_ = godotenv.Load()

	conf := &Config{
		CompletionsAPIURL: getEnv("COMPLETIONS_API_URL", "https://api.openai.com/v1", printEnv),
		CompletionsAPIKey: getEnvOrPanic("COMPLETIONS_API_KEY", printEnv),
		CompletionsModel:  getEnv("COMPLETIONS_MODEL", "gpt-4.1-mini", printEnv),
		DBPath:            getEnv("DB_PATH", "./output/sqlite/yui.db", printEnv),
		AppDataPath:       getEnv("APP_DATA_PATH", "./output", printEnv),

		Temperature: getEnvFloat("COMPLETIONS_TEMPERATURE", 0.4, printEnv),
		MaxTokens:   int64(getEnvInt("COMPLETIONS_MAX_TOKENS", 500, printEnv)),
		TopK:        int64(getEnvInt("COMPLETIONS_TOP_K", 40, printEnv)),
		TopP:        getEnvFloat("COMPLETIONS_TOP_P", 0.45, printEnv),

		CompletionsTimeoutSecs: getEnvInt("COMPLETIONS_TIMEOUT_SECONDS", 30, printEnv),

		MaxMemoryTurns: getEnvInt("MAX_MEMORY_TURNS", 50, printEnv),

		ProactiveChance:       getEnvFloat("PROACTIVE_CHANCE", 0.20, printEnv),
		ProactiveCooldownSecs: getEnvInt("PROACTIVE_COOLDOWN_SECONDS", 90, printEnv),
		ProactiveMinTurns:     getEnvInt("PROACTIVE_MIN_TURNS", 6, printEnv),
	}

	return conf, nil
}
