package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nutriderma/nutriderma-ai/internal/config"
	chatHandler "github.com/nutriderma/nutriderma-ai/internal/handler/chat"
	"github.com/nutriderma/nutriderma-ai/internal/handler/health"
	"github.com/nutriderma/nutriderma-ai/internal/handler/payment"
	middlewarePkg "github.com/nutriderma/nutriderma-ai/internal/middleware"
	"github.com/nutriderma/nutriderma-ai/internal/service/conversation"
	"github.com/nutriderma/nutriderma-ai/internal/store"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(conversations *conversation.Service, st store.Store, authCfg config.AuthConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(middlewarePkg.Auth(authCfg.JWTSecret))

	chats := chatHandler.New(conversations)
	probes := health.New(st)
	payments := payment.New()

	r.Route("/api", func(api chi.Router) {
		chats.RegisterRoutes(api)
		probes.RegisterRoutes(api)
		payments.RegisterRoutes(api)
	})

	return r
}
