package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"hmph. hi."}}]}`

const filteredBody = `{"id":"cmpl-2","object":"chat.completion","choices":[{"index":0,"finish_reason":"content_filter","message":{"role":"assistant","content":""}}]}`

func newTestService(t *testing.T, handler http.HandlerFunc, config Config) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewService(log.New(io.Discard), "test-key", server.URL, config)
	svc.retry = Policy{MaxAttempts: 1, Backoffs: []time.Duration{0}}
	return svc
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestCompletionsReturnsAssistantText(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, completionBody)
	}, Config{Model: "test-model"})

	text, err := svc.CompletionsWithRetry(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hmph. hi.", text)
}

func TestCompletionsContentFilterIsFatal(t *testing.T) {
	var calls atomic.Int32
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, filteredBody)
	}, Config{Model: "test-model"})
	svc.retry = Policy{MaxAttempts: 3, Backoffs: []time.Duration{time.Millisecond}}

	_, err := svc.CompletionsWithRetry(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("hello"),
	})
	assert.ErrorIs(t, err, ErrContentFiltered)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCompletionsTimeoutBoundsSlowServer(t *testing.T) {
	svc := newTestService(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, Config{Model: "test-model", Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := svc.CompletionsWithRetry(context.Background(), []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("hello"),
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
