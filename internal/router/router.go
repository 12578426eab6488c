package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"sciencegpt-backend/internal/handlers"
	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/websocket"
)

type Handlers struct {
	Session      *handlers.SessionHandler
	Curriculum   *handlers.CurriculumHandler
	Settings     *handlers.SettingsHandler
	Chat         *handlers.ChatHandler
	Suggestions  *handlers.SuggestionHandler
	Fact         *handlers.FactHandler
	Gamification *handlers.GamificationHandler
	Progress     *handlers.ProgressHandler
}

func New(
	sessionAuth *middleware.SessionAuth,
	h Handlers,
	wsHub *websocket.Hub,
	chatPerMinute int,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Session creation is public; limit it per client address.
	sessionLimiter := middleware.NewRateLimiter(20, time.Minute)
	chatLimiter := middleware.NewRateLimiter(chatPerMinute, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.With(sessionLimiter.Middleware).Post("/sessions", h.Session.Create)

		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)

			r.Delete("/sessions/current", h.Session.Delete)

			// ──── Curriculum Routes ────
			r.Get("/curriculum", h.Curriculum.List)
			r.Get("/curriculum/{grade}", h.Curriculum.Grade)

			// ──── Settings Routes ────
			r.Get("/settings", h.Settings.Get)
			r.With(middleware.Exclusive).Put("/settings", h.Settings.Update)

			// ──── Chat Routes ────
			r.Route("/chat", func(r chi.Router) {
				r.Get("/", h.Chat.Transcript)
				r.With(chatLimiter.Middleware, middleware.Exclusive).Post("/", h.Chat.Ask)
				r.With(middleware.Exclusive).Delete("/", h.Chat.Clear)
			})

			r.With(middleware.Exclusive).Get("/suggestions", h.Suggestions.List)

			// ──── Daily Challenge Routes ────
			r.Route("/fact", func(r chi.Router) {
				r.Use(middleware.Exclusive)
				r.Get("/", h.Fact.Get)
				r.Post("/learned", h.Fact.Learned)
				r.With(chatLimiter.Middleware).Post("/more", h.Fact.More)
				r.With(chatLimiter.Middleware).Post("/related", h.Fact.Related)
			})

			r.Get("/gamification", h.Gamification.Get)

			// ──── Progress Routes ────
			r.Route("/progress", func(r chi.Router) {
				r.Get("/", h.Progress.Get)
				r.Get("/export", h.Progress.Export)
				r.Delete("/", h.Progress.Clear)
			})

			// ──── WebSocket ────
			r.Get("/ws", wsHub.HandleWebSocket)
		})
	})

	return r
}
