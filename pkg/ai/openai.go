// Package ai wraps the OpenAI-compatible completions endpoint behind a small
// service with retry and error classification.
package ai

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

// Config carries the completion parameters applied to every request. A zero
// Timeout leaves the request bounded only by the caller's context.
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	TopP        float64
	Timeout     time.Duration
}

type Service struct {
	client *openai.Client
	logger *log.Logger
	config Config
	retry  Policy
}

// NewService builds a Service against any OpenAI-compatible base URL.
func NewService(logger *log.Logger, apiKey, baseURL string, config Config) *Service {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &Service{
		client: &client,
		logger: logger,
		config: config,
		retry:  DefaultPolicy,
	}
}

// Completions sends one chat completion request and returns the assistant
// text. A content-filtered finish is surfaced as a fatal error so callers do
// not retry it.
func (s *Service) Completions(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       s.config.Model,
		Temperature: openai.Float(s.config.Temperature),
		MaxTokens:   openai.Int(s.config.MaxTokens),
		TopP:        openai.Float(s.config.TopP),
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion request failed")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	choice := completion.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", ErrContentFiltered
	}
	return choice.Message.Content, nil
}

// CompletionsWithRetry wraps Completions in the service's retry policy.
func (s *Service) CompletionsWithRetry(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	var text string
	err := s.retry.Do(ctx, s.logger, func(ctx context.Context) error {
		var callErr error
		text, callErr = s.Completions(ctx, messages)
		return callErr
	})
	return text, err
}
