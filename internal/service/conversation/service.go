package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
	"github.com/nutriderma/nutriderma-ai/internal/store"
)

var (
	ErrChatIDRequired  = errors.New("chatId is required")
	ErrMessageRequired = errors.New("message is required")
)

// Generator produces reply text for a user message. It never fails; provider
// trouble comes back as fallback content.
type Generator interface {
	Generate(ctx context.Context, message string, chatType chat.ChatType) string
}

// Policy is the capability seam a deployment may inject to gate sending,
// e.g. a subscription check. The core does not implement one.
type Policy interface {
	AllowSend(ctx context.Context, owner chat.Owner, chatType chat.ChatType) error
}

// Service orchestrates conversations: it creates chats, appends the user
// message, asks the generator for a reply, appends the reply and commits the
// updated chat in a single store call.
type Service struct {
	store  store.Store
	gen    Generator
	policy Policy
}

// NewService wires the conversation service. policy may be nil, which allows
// every send.
func NewService(st store.Store, gen Generator, policy Policy) *Service {
	return &Service{store: st, gen: gen, policy: policy}
}

// StartChat creates an empty chat. When title is omitted a placeholder is
// used until the first exchange derives the real one.
func (s *Service) StartChat(ctx context.Context, chatType chat.ChatType, title string, owner chat.Owner) (chat.Chat, error) {
	if !chatType.Valid() {
		return chat.Chat{}, store.ErrInvalidChatType
	}
	if title == "" {
		title = fmt.Sprintf("New %s chat", chatType)
	}
	return s.store.CreateChat(ctx, chatType, title, owner)
}

// SendMessage appends the user message, generates a reply, appends it and
// returns the AI message. Validation and the not-found check happen before
// any side effect; the append is the only step that can fail after the
// generation call, and a failed append is reported as a failure so the
// caller never sees a reply that was not durably recorded.
func (s *Service) SendMessage(ctx context.Context, chatID, text string, chatType chat.ChatType, owner chat.Owner) (chat.Message, error) {
	if chatID == "" {
		return chat.Message{}, ErrChatIDRequired
	}
	if text == "" {
		return chat.Message{}, ErrMessageRequired
	}

	if s.policy != nil {
		if err := s.policy.AllowSend(ctx, owner, chatType); err != nil {
			return chat.Message{}, err
		}
	}

	current, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return chat.Message{}, err
	}

	// The stored chat's type is authoritative; the caller's hint only fills
	// in when valid.
	if !chatType.Valid() {
		chatType = current.ChatType
	}

	userMsg := chat.Message{
		ID:        newMessageID(),
		Text:      text,
		Sender:    chat.SenderUser,
		Timestamp: time.Now().UTC(),
	}

	reply := s.gen.Generate(ctx, text, chatType)

	aiMsg := chat.Message{
		ID:        newMessageID(),
		Text:      reply,
		Sender:    chat.SenderAI,
		Timestamp: time.Now().UTC(),
	}

	newTitle := ""
	if len(current.Messages) == 0 {
		newTitle = DeriveTitle(text, chatType)
	}

	if _, err := s.store.AppendMessages(ctx, chatID, []chat.Message{userMsg, aiMsg}, newTitle); err != nil {
		if errors.Is(err, store.ErrChatNotFound) {
			return chat.Message{}, err
		}
		return chat.Message{}, fmt.Errorf("persist messages: %w", err)
	}

	return aiMsg, nil
}

// GetChat returns a single chat by id.
func (s *Service) GetChat(ctx context.Context, chatID string) (chat.Chat, error) {
	if chatID == "" {
		return chat.Chat{}, ErrChatIDRequired
	}
	return s.store.GetChat(ctx, chatID)
}

// ListChats returns chats sorted by most recent activity, optionally
// narrowed to one chat type and to the calling owner.
func (s *Service) ListChats(ctx context.Context, chatType chat.ChatType, owner chat.Owner) ([]chat.Chat, error) {
	return s.store.ListChats(ctx, store.Filter{ChatType: chatType, Owner: owner})
}

// DeleteChat removes a chat and its whole message history.
func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	if chatID == "" {
		return ErrChatIDRequired
	}
	return s.store.DeleteChat(ctx, chatID)
}

// newMessageID returns a time-ordered id, so messages sort by creation
// within a chat and the user/AI pair stays distinct even in the same
// instant.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
