package db

import (
	"context"

	"github.com/yui-chat/yui-go/pkg/chat"
	"github.com/yui-chat/yui-go/pkg/relationship"
)

// sessionDocument is the persisted shape of the relationship state together
// with the short-term conversation history.
type sessionDocument struct {
	*relationship.State
	Memory []chat.Turn `json:"memory"`
}

// LoadSession returns the persisted relationship state and conversation
// history, or fully-populated defaults when nothing has been saved yet.
func (s *Store) LoadSession(ctx context.Context) (*relationship.State, []chat.Turn, error) {
	doc := sessionDocument{State: relationship.DefaultState(), Memory: []chat.Turn{}}
	found, err := s.loadDocument(ctx, characterStateDoc, &doc)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return relationship.DefaultState(), []chat.Turn{}, nil
	}
	if doc.State.FriendshipStage == "" {
		doc.State.FriendshipStage = relationship.StageStranger
	}
	if doc.Memory == nil {
		doc.Memory = []chat.Turn{}
	}
	return doc.State, doc.Memory, nil
}

// SaveSession persists the relationship state and conversation history as one
// document.
func (s *Store) SaveSession(ctx context.Context, state *relationship.State, turns []chat.Turn) error {
	return s.saveDocument(ctx, characterStateDoc, sessionDocument{State: state, Memory: turns})
}
