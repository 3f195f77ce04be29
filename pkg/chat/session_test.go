package chat

import (
	"context"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yui-chat/yui-go/pkg/events"
	"github.com/yui-chat/yui-go/pkg/memory"
	"github.com/yui-chat/yui-go/pkg/nlp"
	"github.com/yui-chat/yui-go/pkg/relationship"
	"github.com/yui-chat/yui-go/pkg/sentiment"
)

type fakeCompleter struct {
	reply string
	err   error
	calls [][]openai.ChatCompletionMessageParamUnion
}

func (f *fakeCompleter) CompletionsWithRetry(_ context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakePersister struct {
	sessions   int
	pools      int
	activities int
	lastKind   string
}

func (f *fakePersister) SaveSession(_ context.Context, _ *relationship.State, _ []Turn) error {
	f.sessions++
	return nil
}

func (f *fakePersister) SavePools(_ context.Context, _ *memory.Pools) error {
	f.pools++
	return nil
}

func (f *fakePersister) StoreProactiveActivity(_ context.Context, kind, _ string) error {
	f.activities++
	f.lastKind = kind
	return nil
}

type sessionFixture struct {
	session   *Session
	completer *fakeCompleter
	persister *fakePersister
	bus       *events.EventBus
	state     *relationship.State
}

func newSessionFixture(cfg Config) *sessionFixture {
	logger := log.New(io.Discard)
	parser := nlp.NewParser(logger)
	scorer := sentiment.NewScorer(parser, logger)
	bus := events.NewEventBus(nil)
	state := relationship.DefaultState()
	completer := &fakeCompleter{reply: "hmph. whatever."}
	persister := &fakePersister{}

	session := NewSession(Options{
		Config:    cfg,
		Logger:    logger,
		Parser:    parser,
		Engine:    relationship.NewEngine(parser, scorer, logger, rand.NewSource(1)),
		Memory:    memory.NewManager(memory.NewPools(), parser, bus, logger),
		Completer: completer,
		Store:     persister,
		Bus:       bus,
		State:     state,
		History:   NewHistory(nil, 50),
		Rand:      rand.NewSource(1),
	})
	return &sessionFixture{
		session:   session,
		completer: completer,
		persister: persister,
		bus:       bus,
		state:     state,
	}
}

func TestGreetingOnlyForFreshRelationship(t *testing.T) {
	f := newSessionFixture(Config{})

	greeting, ok := f.session.Greeting()
	require.True(t, ok)
	assert.Equal(t, "uh, who are you?", greeting)
	assert.Equal(t, 1, f.session.history.Len())

	_, ok = f.session.Greeting()
	assert.False(t, ok)
}

func TestHandleMessageRejectsEmptyInput(t *testing.T) {
	f := newSessionFixture(Config{})

	_, err := f.session.HandleMessage(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, f.completer.calls)
}

func TestHandleMessageRunsFullTurn(t *testing.T) {
	f := newSessionFixture(Config{})

	var completed []TurnResult
	f.bus.Subscribe(events.TurnCompleted, func(e events.Event) {
		if result, ok := e.Data.(TurnResult); ok {
			completed = append(completed, result)
		}
	})

	reply, err := f.session.HandleMessage(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, "hmph. whatever.", reply)

	assert.Equal(t, 2, f.session.history.Len())
	assert.Equal(t, RoleCharacter, f.session.history.Turns()[1].Role)

	// System prompt plus the single user turn.
	require.Len(t, f.completer.calls, 1)
	assert.Len(t, f.completer.calls[0], 2)

	assert.Equal(t, 1, f.persister.sessions)
	assert.Equal(t, 1, f.persister.pools)
	require.Len(t, completed, 1)
	assert.Equal(t, "hello there", completed[0].UserText)
}

func TestHandleMessagePropagatesCompleterError(t *testing.T) {
	f := newSessionFixture(Config{})
	f.completer.err = assert.AnError

	_, err := f.session.HandleMessage(context.Background(), "hello")
	assert.ErrorIs(t, err, assert.AnError)

	// The user turn stays; no character turn was appended and nothing saved.
	assert.Equal(t, 1, f.session.history.Len())
	assert.Zero(t, f.persister.sessions)
}

func TestHandleMessageWarmOpenerMovesFreshState(t *testing.T) {
	f := newSessionFixture(Config{})

	_, err := f.session.HandleMessage(context.Background(), "Hi, I love pizza, my favorite color is blue")
	require.NoError(t, err)

	assert.Positive(t, f.state.TrustLevel)
	assert.Positive(t, f.state.AffectionLevel)
	require.NotNil(t, f.state.UserPreferences.Food)
	assert.Equal(t, "pizza", *f.state.UserPreferences.Food)
	require.NotNil(t, f.state.UserPreferences.Color)
	assert.Equal(t, "blue", *f.state.UserPreferences.Color)
}

func TestHandleMessageExtractsPreferences(t *testing.T) {
	f := newSessionFixture(Config{})

	_, err := f.session.HandleMessage(context.Background(), "my favorite food is pizza")
	require.NoError(t, err)

	require.NotNil(t, f.state.UserPreferences.Food)
	assert.Equal(t, "pizza", *f.state.UserPreferences.Food)
}

func TestTryProactiveSendsAndLogsInitiative(t *testing.T) {
	f := newSessionFixture(Config{})
	f.state.UserPreferences.SetPreference("food", "pizza")

	var sent []string
	f.bus.Subscribe(events.ProactiveSent, func(e events.Event) {
		if text, ok := e.Data.(string); ok {
			sent = append(sent, text)
		}
	})

	reply, ok, err := f.session.TryProactive(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hmph. whatever.", reply)

	assert.Equal(t, 1, f.persister.activities)
	assert.Equal(t, "preference", f.persister.lastKind)
	require.NotNil(t, f.state.LastProactiveAt)
	assert.Equal(t, []string{"hmph. whatever."}, sent)
	assert.Equal(t, reply, f.session.history.PreviousCharacterText())
}

func TestTryProactiveWithoutSubject(t *testing.T) {
	f := newSessionFixture(Config{})

	reply, ok, err := f.session.TryProactive(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, reply)
	assert.Empty(t, f.completer.calls)
}

func TestTryProactiveSkipsWhenBusy(t *testing.T) {
	f := newSessionFixture(Config{})
	f.state.UserPreferences.SetPreference("food", "pizza")
	f.session.proactiveBusy.Store(true)

	_, ok, err := f.session.TryProactive(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.completer.calls)
}

func TestProactiveScheduledAfterTurn(t *testing.T) {
	f := newSessionFixture(Config{
		ProactiveChance:   1,
		ProactiveCooldown: time.Minute,
		ProactiveMinTurns: 0,
	})
	f.state.UserPreferences.SetPreference("food", "pizza")
	f.session.sleep = func(time.Duration) {}

	done := make(chan string, 1)
	f.bus.Subscribe(events.ProactiveSent, func(e events.Event) {
		if text, ok := e.Data.(string); ok {
			done <- text
		}
	})

	_, err := f.session.HandleMessage(context.Background(), "hello there")
	require.NoError(t, err)

	select {
	case text := <-done:
		assert.Equal(t, "hmph. whatever.", text)
	case <-time.After(2 * time.Second):
		t.Fatal("proactive initiative never fired")
	}
}
