package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/nutriderma/nutriderma-ai/internal/config"
	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

// fallbackReply masks upstream generation failures so the conversation can
// always progress and persist something.
const fallbackReply = "Sorry, I'm having trouble generating a response right now."

// Client wraps a single external text-generation call. It never returns an
// error: upstream failures become the fallback reply, and a client built
// without provider credentials stays permanently in disabled mode, echoing
// the input so behavior is observable without live network access.
type Client struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewClient builds the generation client. Missing credentials or a failed
// model setup produce a disabled client rather than an error.
func NewClient(ctx context.Context, cfg config.AIConfig) *Client {
	if !cfg.Enabled() {
		log.Println("[ai] provider credentials missing, generation disabled")
		return &Client{}
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		log.Printf("[ai] failed to create chat model, generation disabled: %v", err)
		return &Client{}
	}

	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		log.Printf("[ai] failed to compile chat chain, generation disabled: %v", err)
		return &Client{}
	}

	return &Client{chain: runnable}
}

// Disabled reports whether the client runs without a provider.
func (c *Client) Disabled() bool {
	return c.chain == nil
}

// Generate produces reply text for the user message. One upstream attempt
// per call, no retries; the latency budget favors a fast, predictable
// fallback over retry storms against a paid API.
func (c *Client) Generate(ctx context.Context, message string, chatType chat.ChatType) string {
	if c.chain == nil {
		return fmt.Sprintf("AI is disabled. You said: %q", message)
	}

	response, err := c.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt(chatType),
		"query":  message,
	})
	if err != nil {
		log.Printf("[ai] generate error for chatType=%s: %v", chatType, err)
		return fallbackReply
	}

	log.Printf("[ai] generated response for chatType=%s, length=%d", chatType, len(response.Content))
	return response.Content
}
