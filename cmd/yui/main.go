package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/yui-chat/yui-go/pkg/ai"
	"github.com/yui-chat/yui-go/pkg/chat"
	"github.com/yui-chat/yui-go/pkg/config"
	"github.com/yui-chat/yui-go/pkg/db"
	"github.com/yui-chat/yui-go/pkg/events"
	"github.com/yui-chat/yui-go/pkg/logging"
	"github.com/yui-chat/yui-go/pkg/memory"
	"github.com/yui-chat/yui-go/pkg/nlp"
	"github.com/yui-chat/yui-go/pkg/relationship"
	"github.com/yui-chat/yui-go/pkg/sentiment"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
		TimeFormat:      time.Kitchen,
	})

	if err := run(logger); err != nil {
		logger.Fatal("exiting", "error", err)
	}
}

func run(logger *log.Logger) error {
	envs, err := config.LoadConfig(false)
	if err != nil {
		return err
	}
	logger.Info("using database path", "path", envs.DBPath)

	factory := logging.NewFactory(logger)

	store, err := db.NewStore(envs.DBPath)
	if err != nil {
		return errors.Wrap(err, "opening store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing store failed", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	state, turns, err := store.LoadSession(ctx)
	if err != nil {
		return errors.Wrap(err, "loading session")
	}
	pools, err := store.LoadPools(ctx)
	if err != nil {
		return errors.Wrap(err, "loading memory pools")
	}

	bus := events.NewEventBus(factory.ForService("events"))
	parser := nlp.NewParser(factory.ForParser("nlp"))
	scorer := sentiment.NewScorer(parser, factory.ForParser("sentiment"))
	engine := relationship.NewEngine(parser, scorer, factory.ForService("relationship"), nil)
	memories := memory.NewManager(pools, parser, bus, factory.ForMemory("memory"))

	completions := ai.NewService(factory.ForAI("completions"), envs.CompletionsAPIKey, envs.CompletionsAPIURL, ai.Config{
		Model:       envs.CompletionsModel,
		Temperature: envs.Temperature,
		MaxTokens:   int64(envs.MaxTokens),
		TopP:        envs.TopP,
		Timeout:     time.Duration(envs.CompletionsTimeoutSecs) * time.Second,
	})

	session := chat.NewSession(chat.Options{
		Config: chat.Config{
			ProactiveChance:   envs.ProactiveChance,
			ProactiveCooldown: time.Duration(envs.ProactiveCooldownSecs) * time.Second,
			ProactiveMinTurns: envs.ProactiveMinTurns,
		},
		Logger:    factory.ForChat("session"),
		Parser:    parser,
		Engine:    engine,
		Memory:    memories,
		Completer: completions,
		Store:     store,
		Bus:       bus,
		State:     state,
		History:   chat.NewHistory(turns, envs.MaxMemoryTurns),
	})

	subscribeAnnouncements(bus, state)

	fmt.Printf("%s is here. Type a message, or /quit to leave.\n\n", state.CharacterName)
	if greeting, ok := session.Greeting(); ok {
		printCharacter(state.CharacterName, greeting)
	}

	return repl(ctx, session, state)
}

// subscribeAnnouncements prints the side-channel notices the conversation
// produces: noted preferences, stage changes and proactive messages.
func subscribeAnnouncements(bus *events.EventBus, state *relationship.State) {
	bus.Subscribe(events.PreferenceUpdated, func(e events.Event) {
		if update, ok := e.Data.(memory.PreferenceUpdate); ok {
			fmt.Printf("(%s notes your preference for %s: %s.)\n", state.CharacterName, update.Category, update.Value)
		}
	})
	bus.Subscribe(events.StageChanged, func(e events.Event) {
		if result, ok := e.Data.(relationship.Result); ok {
			fmt.Printf("System: Your friendship stage with %s is now: %s\n", state.CharacterName, result.NewStage)
		}
	})
	bus.Subscribe(events.ProactiveSent, func(e events.Event) {
		if text, ok := e.Data.(string); ok {
			printCharacter(state.CharacterName, text)
		}
	})
}

func repl(ctx context.Context, session *chat.Session, state *relationship.State) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "/quit", "/exit":
			return nil
		case "/stats":
			printStats(state)
			continue
		case "":
			continue
		}

		reply, err := session.HandleMessage(ctx, line)
		if err != nil {
			fmt.Printf("System: %s seems to be having trouble connecting... (%v)\n", state.CharacterName, err)
			continue
		}
		printCharacter(state.CharacterName, reply)
	}
}

func printCharacter(name, text string) {
	fmt.Printf("%s: %s\n", name, text)
}

func printStats(state *relationship.State) {
	fmt.Printf("Trust: %.1f/100  Affection: %.1f/100  Stage: %s  Mood: %s\n",
		state.TrustLevel, state.AffectionLevel, state.FriendshipStage, state.Mood())
	fmt.Printf("Sentiment: %s\n", state.RecentSentimentBand())
	for _, kv := range state.UserPreferences.Known() {
		fmt.Printf("Preference %s: %s\n", kv[0], kv[1])
	}
}
