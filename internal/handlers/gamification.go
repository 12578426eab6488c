package handlers

import (
	"net/http"

	"sciencegpt-backend/internal/gamification"
	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/models"
)

type GamificationHandler struct {
	engine *gamification.Engine
}

func NewGamificationHandler(engine *gamification.Engine) *GamificationHandler {
	return &GamificationHandler{engine: engine}
}

func (h *GamificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := middleware.GetSession(r.Context()).Game()

	writeJSON(w, http.StatusOK, models.GamificationResponse{
		State:      state,
		Earned:     h.engine.EarnedBadges(state),
		NextBadges: h.engine.NextBadges(state),
	})
}
