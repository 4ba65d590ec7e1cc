package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

// MemoryStore implements Store with an in-memory map, suitable for tests and
// deployments that run without MongoDB. The mutex serializes appends, which
// gives arrival-order commits for free.
type MemoryStore struct {
	mu    sync.RWMutex
	chats map[string]chat.Chat
}

// NewMemoryStore bootstraps an empty in-memory chat store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chats: make(map[string]chat.Chat)}
}

func (s *MemoryStore) CreateChat(_ context.Context, chatType chat.ChatType, title string, owner chat.Owner) (chat.Chat, error) {
	if !chatType.Valid() {
		return chat.Chat{}, ErrInvalidChatType
	}

	now := time.Now().UTC()
	c := chat.Chat{
		ID:        uuid.NewString(),
		Owner:     owner,
		ChatType:  chatType,
		Title:     title,
		Messages:  make([]chat.Message, 0, 8),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.chats[c.ID] = c
	s.mu.Unlock()

	return copyChat(c), nil
}

func (s *MemoryStore) GetChat(_ context.Context, id string) (chat.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chats[id]
	if !ok {
		return chat.Chat{}, ErrChatNotFound
	}
	return copyChat(c), nil
}

func (s *MemoryStore) ListChats(_ context.Context, filter Filter) ([]chat.Chat, error) {
	s.mu.RLock()
	result := make([]chat.Chat, 0, len(s.chats))
	for _, c := range s.chats {
		if filter.ChatType != "" && c.ChatType != filter.ChatType {
			continue
		}
		if ownerID, ok := filter.Owner.UserID(); ok {
			if id, _ := c.Owner.UserID(); id != ownerID {
				continue
			}
		}
		result = append(result, copyChat(c))
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) AppendMessages(_ context.Context, id string, msgs []chat.Message, newTitle string) (chat.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[id]
	if !ok {
		return chat.Chat{}, ErrChatNotFound
	}

	if newTitle != "" && len(c.Messages) == 0 {
		c.Title = newTitle
	}

	c.Messages = append(c.Messages, msgs...)
	if now := time.Now().UTC(); now.After(c.UpdatedAt) {
		c.UpdatedAt = now
	}
	s.chats[id] = c

	return copyChat(c), nil
}

func (s *MemoryStore) DeleteChat(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[id]; !ok {
		return ErrChatNotFound
	}
	delete(s.chats, id)
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// copyChat detaches the message slice so callers never alias store state.
func copyChat(c chat.Chat) chat.Chat {
	msgs := make([]chat.Message, len(c.Messages))
	copy(msgs, c.Messages)
	c.Messages = msgs
	return c
}
