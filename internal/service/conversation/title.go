package conversation

import (
	"strings"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

// titleWordLimit caps how many words of the first message end up in the
// derived title.
const titleWordLimit = 4

var titleMarkers = map[chat.ChatType]string{
	chat.TypeDiet:      "🍎",
	chat.TypeSkincare:  "✨",
	chat.TypeWellbeing: "🧠",
}

// DeriveTitle builds a chat title from the first user message: the chat
// type's marker, the first four whitespace-separated words, and an ellipsis
// when the message was truncated. Pure and deterministic.
func DeriveTitle(message string, chatType chat.ChatType) string {
	words := strings.Fields(message)
	truncated := len(words) > titleWordLimit
	if truncated {
		words = words[:titleWordLimit]
	}

	title := titleMarkers[chatType] + " " + strings.Join(words, " ")
	if truncated {
		title += "..."
	}
	return title
}
