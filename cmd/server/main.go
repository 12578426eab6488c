package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sciencegpt-backend/internal/app"
	"sciencegpt-backend/internal/cache"
	"sciencegpt-backend/internal/config"
	"sciencegpt-backend/internal/curriculum"
	"sciencegpt-backend/internal/database"
	"sciencegpt-backend/internal/gamification"
	"sciencegpt-backend/internal/handlers"
	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/router"
	"sciencegpt-backend/internal/session"
	"sciencegpt-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("🚀 Starting ScienceGPT Backend...")
	logger.Info("✓ Environment variables loaded")

	// ──── Step 2: Load Curriculum & Rules ────
	catalog := curriculum.MustLoad()
	engine := gamification.MustLoad()
	logger.Info("✓ Curriculum and gamification rules loaded", "grades", len(catalog.Grades()))

	// ──── Step 3: Initialize Redis Clients (optional) ────
	stores := session.MemoryStores(nil)
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		var err error
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			logger.Error("✗ Redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClients.Close()

		retention := cfg.SessionTTL + cfg.FactCacheTTL
		stores = func(sessionID string) cache.Store {
			return cache.NewRedisStore(redisClients.Cache, sessionID, retention, nil)
		}
		logger.Info("✓ Redis connected")
	} else {
		logger.Warn("REDIS_URL not set; using in-memory cache and progress fan-out")
	}

	// ──── Step 4: Start WebSocket Hub ────
	var wsHub *websocket.Hub
	if redisClients != nil {
		wsHub = websocket.NewHub(redisClients.PubSub, cfg.FrontendURL, logger)
	} else {
		wsHub = websocket.NewHub(nil, cfg.FrontendURL, logger)
	}
	logger.Info("✓ WebSocket hub started")

	// ──── Step 5: Build Question Pipeline ────
	ctx := context.Background()
	pipeline, err := app.NewPipeline(ctx, cfg, catalog, wsHub, logger)
	if err != nil {
		logger.Error("✗ Pipeline initialization failed", "error", err)
		os.Exit(1)
	}
	logger.Info("✓ Language model ready",
		"provider", cfg.LLM.Provider,
		"model", pipeline.Provider.ModelID(),
		"translator", cfg.Translator,
	)

	// ──── Step 6: Start Session Manager ────
	sessions := session.NewManager(session.ManagerConfig{
		Stores:   stores,
		Defaults: catalog.Defaults,
		TTL:      cfg.SessionTTL,
		OnExpire: wsHub.CloseSession,
		Logger:   logger,
	})
	sessions.Start()
	logger.Info("✓ Session manager started", "ttl", cfg.SessionTTL.String())

	// ──── Initialize Handlers ────
	sessionAuth := middleware.NewSessionAuth(cfg.SessionSecret, sessions)
	h := router.Handlers{
		Session:      handlers.NewSessionHandler(sessions, sessionAuth, wsHub),
		Curriculum:   handlers.NewCurriculumHandler(catalog),
		Settings:     handlers.NewSettingsHandler(catalog, logger),
		Chat:         handlers.NewChatHandler(pipeline.Answers, engine),
		Suggestions:  handlers.NewSuggestionHandler(pipeline.Suggestions),
		Fact:         handlers.NewFactHandler(pipeline.Facts, engine),
		Gamification: handlers.NewGamificationHandler(engine),
		Progress:     handlers.NewProgressHandler(),
	}

	// ──── Step 7: Start HTTP Server ────
	r := router.New(sessionAuth, h, wsHub, cfg.ChatRatePerMinute, cfg.FrontendURL)

	// A chat request waits on the model, translation and video lookups.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")
		sessions.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info(fmt.Sprintf("✓ ScienceGPT Backend ready on http://localhost:%s", cfg.Port))
	logger.Info(fmt.Sprintf("  API: http://localhost:%s/api/v1", cfg.Port))
	logger.Info(fmt.Sprintf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
