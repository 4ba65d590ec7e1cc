package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
	"github.com/nutriderma/nutriderma-ai/internal/store"
)

func TestCreateChatRejectsUnknownType(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateChat(ctx, "astrology", "title", chat.AnonymousOwner()); !errors.Is(err, store.ErrInvalidChatType) {
		t.Fatalf("expected ErrInvalidChatType, got %v", err)
	}
}

func TestCreateChatStartsEmpty(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateChat(ctx, chat.TypeDiet, "New diet chat", chat.AnonymousOwner())
	if err != nil {
		t.Fatalf("CreateChat err: %v", err)
	}
	if len(created.Messages) != 0 {
		t.Fatalf("expected empty messages, got %d", len(created.Messages))
	}
	if created.CreatedAt.IsZero() || !created.UpdatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected createdAt == updatedAt, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.GetChat(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetChat err: %v", err)
	}
	if got.ChatType != chat.TypeDiet {
		t.Fatalf("unexpected chat type: %s", got.ChatType)
	}
}

func TestGetChatNotFound(t *testing.T) {
	s := store.NewMemoryStore()

	if _, err := s.GetChat(context.Background(), "missing"); !errors.Is(err, store.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestAppendMessagesRefreshesUpdatedAt(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateChat(ctx, chat.TypeWellbeing, "New wellbeing chat", chat.AnonymousOwner())
	if err != nil {
		t.Fatalf("CreateChat err: %v", err)
	}

	updated, err := s.AppendMessages(ctx, created.ID, []chat.Message{
		{ID: "m1", Text: "hello", Sender: chat.SenderUser, Timestamp: time.Now().UTC()},
		{ID: "m2", Text: "hi", Sender: chat.SenderAI, Timestamp: time.Now().UTC()},
	}, "")
	if err != nil {
		t.Fatalf("AppendMessages err: %v", err)
	}

	if len(updated.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(updated.Messages))
	}
	if updated.Messages[0].ID != "m1" || updated.Messages[1].ID != "m2" {
		t.Fatal("messages out of append order")
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatal("updatedAt went backwards")
	}
}

func TestAppendMessagesTitleOnlyOnEmptyPreState(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateChat(ctx, chat.TypeDiet, "New diet chat", chat.AnonymousOwner())
	if err != nil {
		t.Fatalf("CreateChat err: %v", err)
	}

	first, err := s.AppendMessages(ctx, created.ID, []chat.Message{{ID: "m1", Text: "a", Sender: chat.SenderUser}}, "derived title")
	if err != nil {
		t.Fatalf("AppendMessages err: %v", err)
	}
	if first.Title != "derived title" {
		t.Fatalf("expected derived title, got %q", first.Title)
	}

	second, err := s.AppendMessages(ctx, created.ID, []chat.Message{{ID: "m2", Text: "b", Sender: chat.SenderAI}}, "late title")
	if err != nil {
		t.Fatalf("AppendMessages err: %v", err)
	}
	if second.Title != "derived title" {
		t.Fatalf("title changed on non-empty pre-state: %q", second.Title)
	}
}

func TestAppendMessagesNotFound(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.AppendMessages(context.Background(), "missing", []chat.Message{{ID: "m1"}}, "")
	if !errors.Is(err, store.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestListChatsFilterAndOrder(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	skin1, _ := s.CreateChat(ctx, chat.TypeSkincare, "one", chat.AnonymousOwner())
	skin2, _ := s.CreateChat(ctx, chat.TypeSkincare, "two", chat.AnonymousOwner())
	if _, err := s.CreateChat(ctx, chat.TypeDiet, "other", chat.AnonymousOwner()); err != nil {
		t.Fatalf("CreateChat err: %v", err)
	}

	// Touch skin1 so it becomes the most recently active.
	time.Sleep(2 * time.Millisecond)
	if _, err := s.AppendMessages(ctx, skin1.ID, []chat.Message{{ID: "m1", Text: "hi", Sender: chat.SenderUser}}, ""); err != nil {
		t.Fatalf("AppendMessages err: %v", err)
	}

	chats, err := s.ListChats(ctx, store.Filter{ChatType: chat.TypeSkincare})
	if err != nil {
		t.Fatalf("ListChats err: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected 2 skincare chats, got %d", len(chats))
	}
	for _, c := range chats {
		if c.ChatType != chat.TypeSkincare {
			t.Fatalf("filter leaked chat type %s", c.ChatType)
		}
	}
	if chats[0].ID != skin1.ID || chats[1].ID != skin2.ID {
		t.Fatal("chats not sorted by updatedAt descending")
	}
}

func TestListChatsOwnerFilter(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	mine, _ := s.CreateChat(ctx, chat.TypeDiet, "mine", chat.UserOwner("user-1"))
	if _, err := s.CreateChat(ctx, chat.TypeDiet, "theirs", chat.UserOwner("user-2")); err != nil {
		t.Fatalf("CreateChat err: %v", err)
	}

	chats, err := s.ListChats(ctx, store.Filter{Owner: chat.UserOwner("user-1")})
	if err != nil {
		t.Fatalf("ListChats err: %v", err)
	}
	if len(chats) != 1 || chats[0].ID != mine.ID {
		t.Fatalf("owner filter returned wrong chats: %+v", chats)
	}
}

func TestDeleteChat(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, _ := s.CreateChat(ctx, chat.TypeDiet, "gone soon", chat.AnonymousOwner())
	if err := s.DeleteChat(ctx, created.ID); err != nil {
		t.Fatalf("DeleteChat err: %v", err)
	}
	if _, err := s.GetChat(ctx, created.ID); !errors.Is(err, store.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound after delete, got %v", err)
	}
	if err := s.DeleteChat(ctx, created.ID); !errors.Is(err, store.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound on second delete, got %v", err)
	}
}

func TestConcurrentAppendsSameChatAreAdditive(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	created, _ := s.CreateChat(ctx, chat.TypeDiet, "busy", chat.AnonymousOwner())

	const appenders = 10
	var wg sync.WaitGroup
	for i := 0; i < appenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AppendMessages(ctx, created.ID, []chat.Message{
				{ID: fmt.Sprintf("u%d", i), Sender: chat.SenderUser, Text: "q"},
				{ID: fmt.Sprintf("a%d", i), Sender: chat.SenderAI, Text: "r"},
			}, "")
			if err != nil {
				t.Errorf("AppendMessages err: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.GetChat(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetChat err: %v", err)
	}
	if len(got.Messages) != appenders*2 {
		t.Fatalf("lost appends: expected %d messages, got %d", appenders*2, len(got.Messages))
	}
}

func TestConcurrentAppendsDifferentChatsDoNotCross(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	left, _ := s.CreateChat(ctx, chat.TypeDiet, "left", chat.AnonymousOwner())
	right, _ := s.CreateChat(ctx, chat.TypeSkincare, "right", chat.AnonymousOwner())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = s.AppendMessages(ctx, left.ID, []chat.Message{{ID: fmt.Sprintf("l%d", i), Text: "left", Sender: chat.SenderUser}}, "")
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = s.AppendMessages(ctx, right.ID, []chat.Message{{ID: fmt.Sprintf("r%d", i), Text: "right", Sender: chat.SenderUser}}, "")
		}(i)
	}
	wg.Wait()

	gotLeft, _ := s.GetChat(ctx, left.ID)
	for _, m := range gotLeft.Messages {
		if m.Text != "left" {
			t.Fatalf("foreign message in left chat: %+v", m)
		}
	}
	gotRight, _ := s.GetChat(ctx, right.ID)
	for _, m := range gotRight.Messages {
		if m.Text != "right" {
			t.Fatalf("foreign message in right chat: %+v", m)
		}
	}
	if len(gotLeft.Messages) != 20 || len(gotRight.Messages) != 20 {
		t.Fatalf("lost appends: %d / %d", len(gotLeft.Messages), len(gotRight.Messages))
	}
}
