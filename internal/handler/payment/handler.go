package payment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nutriderma/nutriderma-ai/internal/middleware"
	"github.com/nutriderma/nutriderma-ai/pkg/utils"
)

// Handler serves the mock subscription endpoints. No real billing happens
// here; the chat core never consults subscription state in the anonymous
// deployment.
type Handler struct{}

// New creates the payment handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes registers the mock payment routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/payments/create-payment-intent", h.handleCreatePaymentIntent)
	r.Post("/payments/create-subscription", h.handleCreateSubscription)
	r.Post("/payments/cancel-subscription", h.handleCancelSubscription)
}

func (h *Handler) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if middleware.Identity(r.Context()).IsAnonymous() {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Plan   string  `json:"plan"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"clientSecret": fmt.Sprintf("mock_client_secret_%d", time.Now().UnixMilli()),
		"message":      fmt.Sprintf("Payment intent created for %s at amount %.2f", payload.Plan, payload.Amount),
	})
}

func (h *Handler) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	if middleware.Identity(r.Context()).IsAnonymous() {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"subscriptionId": fmt.Sprintf("mock_sub_%d", time.Now().UnixMilli()),
		"message":        fmt.Sprintf("Subscription created successfully for %s", payload.Plan),
	})
}

func (h *Handler) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	if middleware.Identity(r.Context()).IsAnonymous() {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Subscription cancelled successfully",
	})
}
