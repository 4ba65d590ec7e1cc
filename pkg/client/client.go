// Package client is the session-side view of the NutriDerma AI API. It talks
// to the HTTP boundary, mirrors chat state optimistically into a local cache
// and reconciles the cache with server responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

// APIError carries a non-2xx response back to the caller.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client calls the chat API on behalf of one session.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cache   *Cache
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a session client for the API at baseURL (e.g.
// "http://localhost:5000/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   NewCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the local chat view for rendering without a round trip.
func (c *Client) Cache() *Cache {
	return c.cache
}

// CreateChat starts a new chat of the given type and caches it.
func (c *Client) CreateChat(ctx context.Context, chatType chat.ChatType, title string) (chat.Chat, error) {
	var out struct {
		Chat chat.Chat `json:"chat"`
	}
	err := c.do(ctx, http.MethodPost, "/chats", map[string]string{
		"chatType": string(chatType),
		"title":    title,
	}, &out)
	if err != nil {
		return chat.Chat{}, err
	}

	c.cache.Put(out.Chat)
	return out.Chat, nil
}

// SendMessage sends a user message and returns the AI reply. The user
// message is mirrored into the cache before the request; on failure the
// mirror is rolled back, and on success the server's copy of the chat
// replaces the cached one so the cache never drifts ahead of the server.
func (c *Client) SendMessage(ctx context.Context, chatType chat.ChatType, chatID, message string) (chat.Message, error) {
	localMsg := chat.Message{
		ID:        "local-" + uuid.NewString(),
		Text:      message,
		Sender:    chat.SenderUser,
		Timestamp: time.Now().UTC(),
	}
	mirrored := c.cache.AppendMessages(chatType, chatID, localMsg)

	var out struct {
		AIMessage chat.Message `json:"aiMessage"`
	}
	err := c.do(ctx, http.MethodPost, "/chats/messages", map[string]string{
		"chatId":   chatID,
		"message":  message,
		"chatType": string(chatType),
	}, &out)
	if err != nil {
		if mirrored {
			c.cache.RemoveMessage(chatType, chatID, localMsg.ID)
		}
		return chat.Message{}, err
	}

	// Server wins: adopt its ids, title and timestamps wholesale. If the
	// refetch fails we keep the optimistic mirror plus the reply.
	if refreshed, err := c.GetChat(ctx, chatID); err == nil {
		c.cache.Put(refreshed)
	} else if mirrored {
		c.cache.AppendMessages(chatType, chatID, out.AIMessage)
	}

	return out.AIMessage, nil
}

// ListChats fetches chats, optionally filtered by type, and reconciles the
// cache with the server's listing.
func (c *Client) ListChats(ctx context.Context, chatType chat.ChatType) ([]chat.Chat, error) {
	path := "/chats"
	if chatType != "" {
		path += "?chatType=" + url.QueryEscape(string(chatType))
	}

	var out struct {
		Chats []chat.Chat `json:"chats"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	if chatType != "" {
		c.cache.ReplaceAll(chatType, out.Chats)
	} else {
		for _, entry := range out.Chats {
			c.cache.Put(entry)
		}
	}
	return out.Chats, nil
}

// GetChat fetches one chat and refreshes its cache entry.
func (c *Client) GetChat(ctx context.Context, chatID string) (chat.Chat, error) {
	var out struct {
		Chat chat.Chat `json:"chat"`
	}
	if err := c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(chatID), nil, &out); err != nil {
		return chat.Chat{}, err
	}

	c.cache.Put(out.Chat)
	return out.Chat, nil
}

// DeleteChat removes a chat on the server and from the cache.
func (c *Client) DeleteChat(ctx context.Context, chatType chat.ChatType, chatID string) error {
	if err := c.do(ctx, http.MethodDelete, "/chats/"+url.PathEscape(chatID), nil, nil); err != nil {
		return err
	}
	c.cache.Delete(chatType, chatID)
	return nil
}

// Health reports the server's persistence connectivity.
type Health struct {
	Status          string    `json:"status"`
	StoreConnection string    `json:"storeConnection"`
	Timestamp       time.Time `json:"timestamp"`
}

// CheckHealth calls the health probe.
func (c *Client) CheckHealth(ctx context.Context) (Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return Health{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
