package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"sciencegpt-backend/internal/gamification"
	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/services"
)

type SuggestionHandler struct {
	suggestions *services.SuggestionGenerator
}

func NewSuggestionHandler(suggestions *services.SuggestionGenerator) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	settings := sess.Settings()

	writeJSON(w, http.StatusOK, models.SuggestionsResponse{
		Settings:    settings,
		Suggestions: h.suggestions.Suggestions(r.Context(), sess, settings),
	})
}

// FactHandler serves the daily challenge.
type FactHandler struct {
	facts  *services.FactGenerator
	engine *gamification.Engine
	now    func() time.Time
}

func NewFactHandler(facts *services.FactGenerator, engine *gamification.Engine) *FactHandler {
	return &FactHandler{facts: facts, engine: engine, now: time.Now}
}

func (h *FactHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	s := sess.Settings()

	writeJSON(w, http.StatusOK, h.facts.FactOfDay(r.Context(), sess, s.Grade, s.Subject, s.Topic))
}

// Learned credits the daily challenge.
func (h *FactHandler) Learned(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var points int
	var badges []models.Badge
	state := sess.UpdateGame(func(g *models.GameState) {
		points = h.engine.AwardPoints(g, gamification.ActionDailyChallenge, 1)
		g.TopicsExplored++
		badges = h.engine.CheckBadges(g)
	})
	if badges == nil {
		badges = []models.Badge{}
	}

	writeJSON(w, http.StatusOK, models.FactActionResponse{
		PointsAdded: points,
		NewBadges:   badges,
		State:       state,
		At:          h.now(),
	})
}

// More explains the fact further and rewards the curiosity.
func (h *FactHandler) More(w http.ResponseWriter, r *http.Request) {
	h.followUp(w, r, h.facts.MoreAboutFact, gamification.ActionTopicExploration)
}

func (h *FactHandler) Related(w http.ResponseWriter, r *http.Request) {
	h.followUp(w, r, h.facts.RelatedQuestions, "")
}

type followUpFunc func(ctx context.Context, req services.AnswerRequest, fact string) models.Answer

// followUp answers a question about the fact named in the body, or about
// today's fact when the body is empty. The exchange joins the transcript and
// action, when set, is awarded once.
func (h *FactHandler) followUp(w http.ResponseWriter, r *http.Request, ask followUpFunc, action string) {
	sess := middleware.GetSession(r.Context())
	s := sess.Settings()

	var req struct {
		Fact string `json:"fact"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fact := strings.TrimSpace(req.Fact)
	if fact == "" {
		fact = h.facts.FactOfDay(r.Context(), sess, s.Grade, s.Subject, s.Topic).Fact
	}

	asked := h.now()
	answer := ask(r.Context(), services.AnswerRequest{
		SessionID: sess.ID,
		RequestID: r.Header.Get("X-Request-ID"),
		Settings:  s,
	}, fact)

	sess.AppendMessages(
		models.ChatMessage{Role: models.RoleUser, Content: fact, Timestamp: asked},
		assistantMessage(answer, h.now()),
	)

	points := 0
	badges := []models.Badge{}
	if action != "" {
		sess.UpdateGame(func(g *models.GameState) {
			points = h.engine.AwardPoints(g, action, 1)
			if earned := h.engine.CheckBadges(g); earned != nil {
				badges = earned
			}
		})
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Answer:      answer,
		PointsAdded: points,
		NewBadges:   badges,
	})
}
