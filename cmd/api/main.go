package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nutriderma/nutriderma-ai/internal/config"
	"github.com/nutriderma/nutriderma-ai/internal/handler"
	"github.com/nutriderma/nutriderma-ai/internal/service/ai"
	"github.com/nutriderma/nutriderma-ai/internal/service/conversation"
	"github.com/nutriderma/nutriderma-ai/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatStore, cleanup, err := newStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize chat store: %v", err)
	}
	defer cleanup()

	generator := ai.NewClient(ctx, cfg.AI)
	if generator.Disabled() {
		log.Println("generation provider disabled, replies will use the fallback")
	} else {
		log.Println("generation provider initialized successfully")
	}

	conversations := conversation.NewService(chatStore, generator, nil)

	if cfg.Auth.Enabled() {
		log.Println("bearer-token identity enabled")
	} else {
		log.Println("JWT secret not configured, all requests are anonymous")
	}

	router := handler.NewRouter(conversations, chatStore, cfg.Auth)

	startServer(ctx, cfg.Server, router)
}

func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Backend {
	case "memory":
		log.Println("using in-memory chat store, chats will not survive a restart")
		return store.NewMemoryStore(), func() {}, nil
	case "mongo":
		mongoStore, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("connected to MongoDB database %q", cfg.Database)
		cleanup := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoStore.Close(closeCtx); err != nil {
				log.Printf("warning: failed to close mongo store: %v", err)
			}
		}
		return mongoStore, cleanup, nil
	default:
		return nil, nil, errors.New("CHAT_STORE must be \"mongo\" or \"memory\"")
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("NutriDerma AI backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
