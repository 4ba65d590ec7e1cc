package client

import (
	"sync"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

// Cache is the session client's local view of chat history, bucketed by chat
// type with the most recently active chat first. It only mirrors state; on
// any conflict the server response wins and replaces the cached entry.
type Cache struct {
	mu    sync.RWMutex
	chats map[chat.ChatType][]chat.Chat
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{chats: make(map[chat.ChatType][]chat.Chat)}
}

// Put upserts a chat into its type bucket and moves it to the front.
func (c *Cache) Put(entry chat.Chat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(entry)
}

func (c *Cache) putLocked(entry chat.Chat) {
	bucket := c.chats[entry.ChatType]
	filtered := make([]chat.Chat, 0, len(bucket)+1)
	filtered = append(filtered, entry)
	for _, existing := range bucket {
		if existing.ID != entry.ID {
			filtered = append(filtered, existing)
		}
	}
	c.chats[entry.ChatType] = filtered
}

// Get returns the cached chat with the given id, if present.
func (c *Cache) Get(chatType chat.ChatType, id string) (chat.Chat, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.chats[chatType] {
		if entry.ID == id {
			return copyChat(entry), true
		}
	}
	return chat.Chat{}, false
}

// List returns the cached chats of one type, most recent first.
func (c *Cache) List(chatType chat.ChatType) []chat.Chat {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bucket := c.chats[chatType]
	result := make([]chat.Chat, 0, len(bucket))
	for _, entry := range bucket {
		result = append(result, copyChat(entry))
	}
	return result
}

// ReplaceAll swaps a type bucket wholesale for the server's listing.
func (c *Cache) ReplaceAll(chatType chat.ChatType, chats []chat.Chat) {
	copied := make([]chat.Chat, 0, len(chats))
	for _, entry := range chats {
		copied = append(copied, copyChat(entry))
	}

	c.mu.Lock()
	c.chats[chatType] = copied
	c.mu.Unlock()
}

// Delete drops a chat from the cache.
func (c *Cache) Delete(chatType chat.ChatType, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.chats[chatType]
	for i, entry := range bucket {
		if entry.ID == id {
			c.chats[chatType] = append(bucket[:i:i], bucket[i+1:]...)
			return
		}
	}
}

// AppendMessages optimistically appends messages to a cached chat, bumps its
// updatedAt and moves it to the front. Reports whether the chat was cached.
func (c *Cache) AppendMessages(chatType chat.ChatType, id string, msgs ...chat.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, entry := range c.chats[chatType] {
		if entry.ID != id {
			continue
		}
		entry = copyChat(entry)
		entry.Messages = append(entry.Messages, msgs...)
		for _, m := range msgs {
			if m.Timestamp.After(entry.UpdatedAt) {
				entry.UpdatedAt = m.Timestamp
			}
		}
		bucket := c.chats[chatType]
		c.chats[chatType] = append(bucket[:i:i], bucket[i+1:]...)
		c.putLocked(entry)
		return true
	}
	return false
}

// RemoveMessage rolls back an optimistic append that the server rejected.
func (c *Cache) RemoveMessage(chatType chat.ChatType, id, messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, entry := range c.chats[chatType] {
		if entry.ID != id {
			continue
		}
		entry = copyChat(entry)
		for j, m := range entry.Messages {
			if m.ID == messageID {
				entry.Messages = append(entry.Messages[:j:j], entry.Messages[j+1:]...)
				break
			}
		}
		c.chats[chatType][i] = entry
		return
	}
}

func copyChat(entry chat.Chat) chat.Chat {
	msgs := make([]chat.Message, len(entry.Messages))
	copy(msgs, entry.Messages)
	entry.Messages = msgs
	return entry
}
