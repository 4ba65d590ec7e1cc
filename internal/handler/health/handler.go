package health

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutriderma/nutriderma-ai/internal/store"
	"github.com/nutriderma/nutriderma-ai/pkg/utils"
)

// Handler reports process and persistence health.
type Handler struct {
	store store.Store
}

// New creates the health handler.
func New(st store.Store) *Handler {
	return &Handler{store: st}
}

// RegisterRoutes registers the health probe.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	connection := "connected"
	if err := h.store.Ping(r.Context()); err != nil {
		log.Printf("[health] store ping failed: %v", err)
		connection = "disconnected"
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":          "Server is running",
		"storeConnection": connection,
		"timestamp":       time.Now().UTC(),
	})
}
