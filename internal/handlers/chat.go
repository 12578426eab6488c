package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"sciencegpt-backend/internal/gamification"
	"sciencegpt-backend/internal/middleware"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/services"
	"sciencegpt-backend/internal/session"
)

const maxQuestionRunes = 2000

type ChatHandler struct {
	answers *services.AnswerGenerator
	engine  *gamification.Engine
	now     func() time.Time
}

func NewChatHandler(answers *services.AnswerGenerator, engine *gamification.Engine) *ChatHandler {
	return &ChatHandler{answers: answers, engine: engine, now: time.Now}
}

// Ask runs one question through the pipeline, records both sides of the
// exchange and awards question points.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	question := strings.TrimSpace(req.Message)
	if question == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}
	if utf8.RuneCountInString(question) > maxQuestionRunes {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"message": "must be at most 2000 characters"}, r))
		return
	}

	settings := sess.Settings()
	asked := h.now()

	answer := h.answers.Generate(r.Context(), services.AnswerRequest{
		SessionID: sess.ID,
		RequestID: r.Header.Get("X-Request-ID"),
		Question:  question,
		Settings:  settings,
	})

	sess.AppendMessages(
		models.ChatMessage{Role: models.RoleUser, Content: question, Timestamp: asked},
		assistantMessage(answer, h.now()),
	)
	sess.Progress.LogQuestion(question, settings.Grade, settings.Subject, settings.Topic)

	points, badges := h.award(sess, asked)

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Answer:      answer,
		PointsAdded: points,
		NewBadges:   badges,
	})
}

func (h *ChatHandler) award(sess *session.Session, now time.Time) (int, []models.Badge) {
	var points int
	var badges []models.Badge
	sess.UpdateGame(func(g *models.GameState) {
		points += h.engine.UpdateStreak(g, now)
		g.QuestionsAsked++
		points += h.engine.AwardPoints(g, gamification.ActionQuestionAsked, 1)
		badges = h.engine.CheckBadges(g)
	})
	if badges == nil {
		badges = []models.Badge{}
	}
	return points, badges
}

func assistantMessage(a models.Answer, at time.Time) models.ChatMessage {
	return models.ChatMessage{
		Role:            models.RoleAssistant,
		Content:         a.Text,
		VideoURL:        a.VideoURL,
		VideoSummary:    a.VideoSummary,
		OriginalEnglish: a.OriginalUntranslatedText,
		Timestamp:       at,
	}
}

func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	messages := sess.Transcript()
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, models.TranscriptResponse{Messages: messages})
}

func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	sess.ClearTranscript()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}
