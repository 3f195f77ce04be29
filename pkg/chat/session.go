package chat

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/pkg/errors"

	"github.com/yui-chat/yui-go/pkg/events"
	"github.com/yui-chat/yui-go/pkg/memory"
	"github.com/yui-chat/yui-go/pkg/nlp"
	"github.com/yui-chat/yui-go/pkg/prompts"
	"github.com/yui-chat/yui-go/pkg/relationship"
)

// ErrEmptyMessage rejects blank user input before any processing.
var ErrEmptyMessage = errors.New("empty message")

const initialGreeting = "uh, who are you?"

// Completer produces one assistant reply for a message sequence.
type Completer interface {
	CompletionsWithRetry(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
}

// Persister durably stores session state, memory pools and the proactive
// activity log.
type Persister interface {
	SaveSession(ctx context.Context, state *relationship.State, turns []Turn) error
	SavePools(ctx context.Context, pools *memory.Pools) error
	StoreProactiveActivity(ctx context.Context, kind, subject string) error
}

// Config holds the session tunables.
type Config struct {
	ProactiveChance   float64
	ProactiveCooldown time.Duration
	ProactiveMinTurns int
}

// Options gathers the session dependencies.
type Options struct {
	Config    Config
	Logger    *log.Logger
	Parser    *nlp.Parser
	Engine    *relationship.Engine
	Memory    *memory.Manager
	Completer Completer
	Store     Persister
	Bus       *events.EventBus
	State     *relationship.State
	History   *History
	Rand      rand.Source
}

// Session runs the conversation loop for one character/user pair. Turns are
// serialized; a proactive initiative in flight blocks another from starting.
type Session struct {
	mu sync.Mutex

	cfg       Config
	logger    *log.Logger
	parser    *nlp.Parser
	engine    *relationship.Engine
	memories  *memory.Manager
	completer Completer
	store     Persister
	bus       *events.EventBus
	optimizer *Optimizer

	state   *relationship.State
	history *History

	rng           *rand.Rand
	proactiveBusy atomic.Bool
	sleep         func(time.Duration)
}

func NewSession(opts Options) *Session {
	src := opts.Rand
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Session{
		cfg:       opts.Config,
		logger:    opts.Logger,
		parser:    opts.Parser,
		engine:    opts.Engine,
		memories:  opts.Memory,
		completer: opts.Completer,
		store:     opts.Store,
		bus:       opts.Bus,
		optimizer: NewOptimizer(opts.Parser, opts.Logger),
		state:     opts.State,
		history:   opts.History,
		rng:       rand.New(src),
		sleep:     time.Sleep,
	}
}

// State exposes the live relationship state for display.
func (s *Session) State() *relationship.State { return s.state }

// Greeting emits the character's opener for a brand-new relationship. It
// returns false when there is existing history to resume.
func (s *Session) Greeting() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history.Len() > 0 || s.state.FriendshipStage != relationship.StageStranger {
		return "", false
	}
	s.history.Append(Turn{Role: RoleCharacter, Text: initialGreeting})
	return initialGreeting, true
}

// TurnResult is the published payload of a completed exchange.
type TurnResult struct {
	UserText      string
	CharacterText string
	Update        relationship.Result
}

// HandleMessage runs one full turn: extraction, completion, relationship
// update, persistence, and possibly scheduling a proactive follow-up.
func (s *Session) HandleMessage(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previousCharacterText := s.history.PreviousCharacterText()
	s.history.Append(Turn{Role: RoleUser, Text: text})

	s.memories.ExtractPreferences(text, &s.state.UserPreferences)
	s.optimizer.Prune(s.history, s.state)

	systemPrompt, err := s.systemPrompt()
	if err != nil {
		return "", errors.Wrap(err, "building system prompt")
	}
	messages := s.messagesFor(systemPrompt, s.optimizer.Optimize(s.history.Turns(), s.state))

	reply, err := s.completer.CompletionsWithRetry(ctx, messages)
	if err != nil {
		return "", err
	}
	s.history.Append(Turn{Role: RoleCharacter, Text: reply})

	s.memories.ProcessConversation(text, reply, s.state)
	result := s.engine.Update(s.state, text, reply, previousCharacterText, s.history.Len(), time.Now())
	if result.StageChanged() {
		s.bus.Publish(events.NewEvent(events.StageChanged, result))
	}

	s.persist(ctx)
	s.bus.Publish(events.NewEvent(events.TurnCompleted, TurnResult{
		UserText:      text,
		CharacterText: reply,
		Update:        result,
	}))

	s.maybeScheduleProactive()
	return reply, nil
}

func (s *Session) persist(ctx context.Context) {
	if err := s.store.SaveSession(ctx, s.state, s.history.Turns()); err != nil {
		s.logger.Error("saving session state failed", "error", err)
	}
	if err := s.store.SavePools(ctx, s.memories.Pools()); err != nil {
		s.logger.Error("saving memory pools failed", "error", err)
	}
}

// systemPrompt renders the persona prompt, including a memory recap when the
// recent turns carry topics with matching memories.
func (s *Session) systemPrompt() (string, error) {
	var topics []string
	for _, turn := range s.history.LastN(3) {
		topics = nlp.MergeTopics(topics, s.parser.Parse(turn.Text).ExtractTopics())
	}
	recap := ""
	if len(topics) > 0 {
		recap = s.memories.Recap(strings.Join(topics, " "), s.state)
	}
	return prompts.BuildCompanionSystemPrompt(prompts.NewCompanionSystemPrompt(s.state, recap))
}

func (s *Session) messagesFor(systemPrompt string, turns []Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, turn := range turns {
		switch turn.Role {
		case RoleCharacter:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	return messages
}

// maybeScheduleProactive rolls the dice after a completed turn and, when the
// gates pass, schedules a delayed proactive initiative. Caller holds the lock.
func (s *Session) maybeScheduleProactive() {
	if s.history.Len() < s.cfg.ProactiveMinTurns {
		return
	}
	if s.rng.Float64() >= s.cfg.ProactiveChance {
		return
	}
	if s.state.LastProactiveAt != nil && time.Since(*s.state.LastProactiveAt) <= s.cfg.ProactiveCooldown {
		s.logger.Debug("proactive initiative skipped by cooldown", "last", *s.state.LastProactiveAt)
		return
	}

	// A short, slightly random delay so the follow-up does not read as an
	// instant double reply.
	delay := 1500*time.Millisecond + time.Duration(s.rng.Float64()*2000)*time.Millisecond
	s.logger.Info("scheduling proactive initiative", "delay", delay)
	go func() {
		s.sleep(delay)
		if _, _, err := s.TryProactive(context.Background()); err != nil {
			s.logger.Warn("proactive initiative failed", "error", err)
		}
	}()
}

// TryProactive attempts one proactive initiative right now. It returns false
// without error when no suitable subject exists or one is already in flight.
func (s *Session) TryProactive(ctx context.Context) (string, bool, error) {
	if !s.proactiveBusy.CompareAndSwap(false, true) {
		return "", false, nil
	}
	defer s.proactiveBusy.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	suggestion := s.memories.ProactiveSuggestion(&s.state.UserPreferences, s.history.Texts(), s.rng)
	if suggestion == nil {
		return "", false, nil
	}

	instruction, subject, err := s.proactiveInstruction(suggestion)
	if err != nil {
		return "", false, err
	}

	systemPrompt, err := s.systemPrompt()
	if err != nil {
		return "", false, errors.Wrap(err, "building system prompt")
	}
	messages := s.messagesFor(systemPrompt, s.optimizer.Optimize(s.history.Turns(), s.state))
	messages = append(messages, openai.UserMessage(instruction))

	reply, err := s.completer.CompletionsWithRetry(ctx, messages)
	if err != nil {
		return "", false, err
	}

	s.history.Append(Turn{Role: RoleCharacter, Text: reply})
	now := time.Now()
	s.state.LastProactiveAt = &now

	if err := s.store.StoreProactiveActivity(ctx, suggestion.Kind, subject); err != nil {
		s.logger.Error("recording proactive activity failed", "error", err)
	}
	s.persist(ctx)
	s.bus.Publish(events.NewEvent(events.ProactiveSent, reply))
	s.logger.Info("sent proactive message", "kind", suggestion.Kind, "subject", subject)
	return reply, true, nil
}

func (s *Session) proactiveInstruction(suggestion *memory.Suggestion) (instruction, subject string, err error) {
	switch suggestion.Kind {
	case "preference":
		instruction, err = prompts.BuildProactivePreferencePrompt(prompts.ProactivePreferencePrompt{
			UserName: s.state.UserName,
			Category: suggestion.Category,
			Value:    suggestion.Value,
		})
		return instruction, suggestion.Value, err
	default:
		instruction, err = prompts.BuildProactiveFactPrompt(prompts.ProactiveFactPrompt{
			UserName: s.state.UserName,
			Fact:     suggestion.Text,
		})
		return instruction, suggestion.Text, err
	}
}
