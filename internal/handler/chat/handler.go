package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutriderma/nutriderma-ai/internal/middleware"
	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
	"github.com/nutriderma/nutriderma-ai/internal/service/conversation"
	"github.com/nutriderma/nutriderma-ai/internal/store"
	"github.com/nutriderma/nutriderma-ai/pkg/utils"
)

// Handler exposes conversation operations over HTTP.
type Handler struct {
	conversations *conversation.Service
}

// New creates the chat handler.
func New(conversations *conversation.Service) *Handler {
	return &Handler{conversations: conversations}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chats", h.handleCreateChat)
	r.Post("/chats/messages", h.handleSendMessage)
	r.Get("/chats", h.handleListChats)
	r.Get("/chats/{chatID}", h.handleGetChat)
	r.Delete("/chats/{chatID}", h.handleDeleteChat)
}

func (h *Handler) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatType string `json:"chatType"`
		Title    string `json:"title"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner := middleware.Identity(r.Context())
	created, err := h.conversations.StartChat(r.Context(), chat.ChatType(payload.ChatType), payload.Title, owner)
	if err != nil {
		if errors.Is(err, store.ErrInvalidChatType) {
			utils.RespondError(w, http.StatusBadRequest, "chatType must be one of diet, skincare or wellbeing")
			return
		}
		log.Printf("[chat] create chat error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create chat")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{"chat": created})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID   string `json:"chatId"`
		Message  string `json:"message"`
		ChatType string `json:"chatType"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner := middleware.Identity(r.Context())
	aiMessage, err := h.conversations.SendMessage(r.Context(), payload.ChatID, payload.Message, chat.ChatType(payload.ChatType), owner)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrChatIDRequired), errors.Is(err, conversation.ErrMessageRequired):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrChatNotFound):
			utils.RespondError(w, http.StatusNotFound, "Chat not found")
		default:
			log.Printf("[chat] send message error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to save message; it may not have been recorded")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"aiMessage": aiMessage})
}

func (h *Handler) handleListChats(w http.ResponseWriter, r *http.Request) {
	chatType := chat.ChatType(r.URL.Query().Get("chatType"))
	owner := middleware.Identity(r.Context())

	chats, err := h.conversations.ListChats(r.Context(), chatType, owner)
	if err != nil {
		log.Printf("[chat] list chats error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch chats")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (h *Handler) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	found, err := h.conversations.GetChat(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, store.ErrChatNotFound) || errors.Is(err, conversation.ErrChatIDRequired) {
			utils.RespondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.Printf("[chat] get chat error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch chat")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"chat": found})
}

func (h *Handler) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	if err := h.conversations.DeleteChat(r.Context(), chatID); err != nil {
		if errors.Is(err, store.ErrChatNotFound) || errors.Is(err, conversation.ErrChatIDRequired) {
			utils.RespondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		log.Printf("[chat] delete chat error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete chat")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
