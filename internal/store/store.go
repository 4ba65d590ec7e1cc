package store

import (
	"context"
	"errors"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrInvalidChatType = errors.New("invalid chat type")
)

// Filter narrows ListChats results. Zero fields match everything; the owner
// filter only applies when a user is bound.
type Filter struct {
	ChatType chat.ChatType
	Owner    chat.Owner
}

// Store is the durable home of Chat documents. It is the sole authority for
// message ordering: AppendMessages is additive, so concurrent appends against
// the same chat never replace each other's messages.
type Store interface {
	// CreateChat persists a new chat with an empty message list.
	CreateChat(ctx context.Context, chatType chat.ChatType, title string, owner chat.Owner) (chat.Chat, error)

	// GetChat returns the chat with the given id, or ErrChatNotFound.
	GetChat(ctx context.Context, id string) (chat.Chat, error)

	// ListChats returns matching chats sorted by updatedAt descending.
	ListChats(ctx context.Context, filter Filter) ([]chat.Chat, error)

	// AppendMessages atomically appends msgs to the chat's sequence and
	// refreshes updatedAt. A non-empty newTitle replaces the title only when
	// the chat's pre-state had zero messages; otherwise it is ignored and the
	// messages still land.
	AppendMessages(ctx context.Context, id string, msgs []chat.Message, newTitle string) (chat.Chat, error)

	// DeleteChat removes the chat, or returns ErrChatNotFound.
	DeleteChat(ctx context.Context, id string) error

	// Ping reports current persistence connectivity.
	Ping(ctx context.Context) error
}
