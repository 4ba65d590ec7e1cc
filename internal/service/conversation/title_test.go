package conversation_test

import (
	"testing"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
	"github.com/nutriderma/nutriderma-ai/internal/service/conversation"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		name     string
		message  string
		chatType chat.ChatType
		want     string
	}{
		{"diet truncated", "Help me plan a low-carb diet", chat.TypeDiet, "🍎 Help me plan a..."},
		{"skincare truncated", "What serum should I use at night", chat.TypeSkincare, "✨ What serum should I..."},
		{"wellbeing short", "I feel stressed", chat.TypeWellbeing, "🧠 I feel stressed"},
		{"exactly four words", "one two three four", chat.TypeDiet, "🍎 one two three four"},
		{"extra whitespace collapsed", "  Help   me  plan a   low-carb diet ", chat.TypeDiet, "🍎 Help me plan a..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := conversation.DeriveTitle(tc.message, tc.chatType)
			if got != tc.want {
				t.Fatalf("DeriveTitle(%q, %s) = %q, want %q", tc.message, tc.chatType, got, tc.want)
			}
		})
	}
}

func TestDeriveTitleIsStable(t *testing.T) {
	first := conversation.DeriveTitle("Help me plan a low-carb diet", chat.TypeDiet)
	for i := 0; i < 5; i++ {
		if got := conversation.DeriveTitle("Help me plan a low-carb diet", chat.TypeDiet); got != first {
			t.Fatalf("DeriveTitle unstable: %q vs %q", got, first)
		}
	}
}
